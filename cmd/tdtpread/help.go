package main

import (
	"fmt"
	"strings"

	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
)

const version = "1.0.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("tdtpread version %s\n", version)
	fmt.Println("TDTP row reader - typed, name-indexed access to query results")
}

// PrintHelp prints usage information
func PrintHelp() {
	fmt.Println("tdtpread - run a query or stored procedure and print every result set")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  tdtpread [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println("    --query <sql>              Run a statement or batch")
	fmt.Println("    --procedure <name>         Run a stored procedure")
	fmt.Println("    --read-xlsx <file>         Read workbook sheets as result sets")
	fmt.Println("    --create-config <type>     Write a sample config to --config path")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println("    --config <file>            Configuration file (default: config.yaml)")
	fmt.Println("    --param name[:type]=value  Procedure parameter, repeatable")
	fmt.Println("    --description <text>       Name used in error messages")
	fmt.Println("    --output <file.xlsx>       Write result sets to XLSX, one sheet each")
	fmt.Println("    --sheet <name>             First sheet name for --output")
	fmt.Println("    --safe                     Allow only SELECT/WITH statements")
	fmt.Println("    --timeout <duration>       Query timeout, e.g. 30s")
	fmt.Println("    --debug                    Log queries and timings")
	fmt.Println()

	fmt.Printf("DATABASES: %s\n\n", strings.Join(adapters.GetRegisteredTypes(), ", "))

	fmt.Println("EXAMPLES:")
	fmt.Println("  tdtpread --create-config mssql")
	fmt.Println("  tdtpread --query \"SELECT * FROM Users\"")
	fmt.Println("  tdtpread --procedure dbo.GetOrders --param @CustomerID=42 --param @Region:varchar=EU")
	fmt.Println("  tdtpread --procedure report_sales --output sales.xlsx --sheet Sales")
	fmt.Println("  tdtpread --read-xlsx sales.xlsx")
}
