package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DeafMist/competency-radar/internal/logger"
	"github.com/DeafMist/competency-radar/internal/taxonomy"
)

func main() {
	log := logger.New("taxonomy")

	ref := os.Getenv("EXTRACT_TAXONOMY")
	if len(os.Args) > 1 {
		ref = os.Args[1]
	}

	if err := dump(os.Stdout, ref); err != nil {
		log.Error("dump taxonomy", slog.String("ref", ref), slog.Any("err", err))
		os.Exit(1)
	}
}

func dump(w io.Writer, ref string) error {
	tax, err := taxonomy.Resolve(ref)
	if err != nil {
		return err
	}
	if len(tax.Categories) == 0 && len(tax.Trends) == 0 {
		return fmt.Errorf("taxonomy %q is empty", ref)
	}
	return tax.Encode(w)
}
