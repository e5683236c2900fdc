//go:build odbc

package main

import _ "github.com/ruslano69/tdtp-rowreader/pkg/adapters/odbc"
