package main

import (
	"github.com/querylint/querylint/cmd"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	cmd.Execute()
}
