package main

import (
	"chat-presence/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// inspect prints the participants and messages held in a badger store.
func main() {
	dbPath := flag.String("db", "data/badger", "Path to badger DB")
	what := flag.String("what", "all", "participants, messages or all")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if *what == "all" || *what == "participants" {
		if err = dumpParticipants(db); err != nil {
			log.Fatal(err)
		}
	}
	if *what == "all" || *what == "messages" {
		if err = dumpMessages(db); err != nil {
			log.Fatal(err)
		}
	}
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func dumpParticipants(db *badger.DB) error {
	table := newTable("Name", "Last status")
	err := scanPrefix(db, repositories.ParticipantPrefix, func(key string, value []byte) {
		p, err := repositories.DecodeParticipant(value)
		if err != nil {
			fmt.Printf("Error decoding key %s: %v\n", key, err)
			return
		}
		table.Append([]string{p.Name, strconv.FormatInt(p.LastStatus, 10)})
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func dumpMessages(db *badger.DB) error {
	table := newTable("Key", "ID", "Time", "Type", "From", "To", "Text")
	err := scanPrefix(db, repositories.MessagePrefix, func(key string, value []byte) {
		m, err := repositories.DecodeMessage(value)
		if err != nil {
			fmt.Printf("Error decoding key %s: %v\n", key, err)
			return
		}
		table.Append([]string{key, m.ID.String(), m.Time, string(m.Type), m.From, m.To, m.Text})
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func scanPrefix(db *badger.DB, prefix string, fn func(key string, value []byte)) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(v []byte) error {
				fn(key, v)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
