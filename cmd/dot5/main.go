// Command dot5 verifies bulk lists of HTTP/SOCKS5 proxies.
//
// Usage:
//
//	dot5 check  [-config dot5.yaml] [-in proxies.txt | -source URL] [-csv out.csv]
//	dot5 scrape [-config dot5.yaml] -source URL [-limit N]
//	dot5 serve  [-config dot5.yaml] [-listen addr]
//	dot5 init   [-config dot5.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(0)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "check":
		err = cmdCheck(args)
	case "scrape":
		err = cmdScrape(args)
	case "serve":
		err = cmdServe(args)
	case "init":
		err = cmdInit(args)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s Unknown command: %s\n\n", red("✗"), cmd)
		printHelp()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Fprintln(os.Stderr, bold(cyan("DOT 5")), dim("bulk proxy checker"))
}

func printHelp() {
	printBanner()
	fmt.Println(`
Commands:
  check    probe proxies from a file, stdin or a public list URL
  scrape   print the addresses found on a public list URL
  serve    run the HTTP API (POST /api/check-bulk, POST /api/export-csv)
  init     write a default config file
  help     show this message

Input lines:
  203.0.113.5                 tried on every default port
  203.0.113.5:8080            tried on that port only
  user:pass@203.0.113.5:8080  with proxy credentials

Run "dot5 <command> -h" for command flags.`)
}
