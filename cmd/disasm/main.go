package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/cli"
)

func main() {
	logger := cli.CreateLogger(false, false)
	if len(os.Args) != 2 {
		fmt.Println("Usage: chopper-disasm <CHIP-8 program>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Fatal(err)
	}

	for _, line := range internal.Disassemble(data, internal.ProgramStart) {
		hex := make([]string, len(line.Data))
		for i, b := range line.Data {
			hex[i] = fmt.Sprintf("%02X", b)
		}
		fmt.Printf("%03X  %-5s  %s\n", line.Address, strings.Join(hex, " "), line.Text)
	}
}
