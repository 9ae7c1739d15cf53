package main

import (
	"chat-rooms/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Prints the username ledger of a chat server, even while the server holds the lock.
func main() {
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	flag.Parse()
	if *dbPath == "" {
		log.Fatal("missing -db or BADGER_FILEPATH")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	entries, err := repositories.NewLedgerRepository(db, logs.GetLoggerFromLevel(slog.LevelError)).List()
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "User", "Registered at"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for i, entry := range entries {
		table.Append([]string{strconv.Itoa(i + 1), entry.Name, entry.RegisteredAt.Local().Format(time.DateTime)})
	}
	table.Render()
	fmt.Printf("%d registered users\n", len(entries))
}
