// inspect dumps document records from a kitlocal store directory.
//
//	inspect -db ./.kitlocal                   list all keys
//	inspect -db ./.kitlocal -prefix io_kitlog list keys by prefix
//	inspect -db ./.kitlocal -key io_catalog_v1::u1  dump one record
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"kitlocal/pkg/logger"
	"kitlocal/pkg/store"
)

func main() {
	var dbPath, prefix, key string
	flag.StringVar(&dbPath, "db", "", "store directory path")
	flag.StringVar(&prefix, "prefix", "", "list keys with this prefix")
	flag.StringVar(&key, "key", "", "dump the record for this key")
	flag.Parse()
	if dbPath == "" {
		fmt.Fprintln(os.Stderr, "--db required")
		os.Exit(2)
	}
	logger.Init()

	st := store.New(dbPath)
	defer st.Close()

	if key != "" {
		rec, err := st.GetRecord(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "get %s: %v\n", key, err)
			os.Exit(1)
		}
		fmt.Printf("key:        %s\n", key)
		fmt.Printf("updated_at: %s\n", time.UnixMilli(rec.UpdatedAt).UTC().Format(time.RFC3339))
		fmt.Printf("value:      %s\n", rec.Value)
		return
	}

	ks, err := st.ListKeys(prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list keys: %v\n", err)
		os.Exit(1)
	}
	for _, k := range ks {
		fmt.Println(k)
	}
}
