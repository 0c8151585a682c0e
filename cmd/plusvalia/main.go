package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/simaogato/plusvalia-backend/internal/adapter/dto"
	"github.com/simaogato/plusvalia-backend/internal/adapter/presenter"
	"github.com/simaogato/plusvalia-backend/internal/adapter/repository/memory"
	"github.com/simaogato/plusvalia-backend/internal/domain"
	"github.com/simaogato/plusvalia-backend/internal/usecase/calculation"
	"github.com/simaogato/plusvalia-backend/internal/usecase/catalog"
	"github.com/simaogato/plusvalia-backend/internal/usecase/seeder"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plusvalia", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		req         dto.CalculationRequest
		rebates     string
		catalogFile string
		list        bool
		asJSON      bool
	)
	fs.StringVar(&req.MunicipalityID, "municipality", "", "municipality id, e.g. talavera-de-la-reina")
	fs.StringVar(&req.Kind, "kind", "sale", "transfer kind: sale or inheritance")
	fs.StringVar(&req.AcquisitionPrice, "acquisition-price", "", "acquisition price in euros")
	fs.StringVar(&req.TransferPrice, "transfer-price", "", "transfer price in euros")
	fs.StringVar(&req.AcquisitionDate, "acquisition-date", "", "acquisition date (YYYY-MM-DD)")
	fs.StringVar(&req.TransferDate, "transfer-date", "", "transfer date (YYYY-MM-DD)")
	fs.StringVar(&req.LandCadastralValue, "land-value", "", "cadastral value of the land")
	fs.StringVar(&req.TotalCadastralValue, "total-value", "", "total cadastral value")
	fs.StringVar(&rebates, "rebates", "", "comma separated rebates: spouse,descendant,habitual_residence")
	fs.StringVar(&catalogFile, "catalog", "", "municipality catalog YAML (defaults to the embedded one)")
	fs.BoolVar(&list, "list", false, "list the available municipalities and exit")
	fs.BoolVar(&asJSON, "json", false, "print the full JSON response")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	municipalities, err := seeder.DefaultCatalog()
	if catalogFile != "" {
		municipalities, err = seeder.LoadCatalogFile(catalogFile)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	repo := memory.NewMunicipalityRepository()
	if _, err := seeder.NewMunicipalitySeeder(repo, municipalities, zap.NewNop()).Seed(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	catalogService := catalog.NewCatalogService(repo)

	if list {
		return listMunicipalities(ctx, catalogService, stdout, stderr)
	}

	if rebates != "" {
		for _, r := range strings.Split(rebates, ",") {
			req.Rebates = append(req.Rebates, strings.TrimSpace(r))
		}
	}

	input, err := req.ToInput()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	calculationService, err := calculation.NewCalculationService(repo)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	calc, err := calculationService.Calculate(ctx, req.MunicipalityID, input)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, domain.ErrInvalidInput) {
			return exitUsage
		}
		return exitError
	}

	cfg, err := catalogService.Get(ctx, calc.MunicipalityID)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	breakdown := presenter.New().Present(calc, cfg)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.NewCalculationResponse(calc, breakdown)); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	printBreakdown(stdout, breakdown)
	return exitOK
}

func listMunicipalities(ctx context.Context, svc *catalog.CatalogService, stdout, stderr io.Writer) int {
	municipalities, err := svc.List(ctx, "")
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tPROVINCIA\tTIPO")
	for _, m := range municipalities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\n", m.ID, m.Name, m.Province, m.TaxRate.String())
	}
	_ = w.Flush()
	return exitOK
}

func printBreakdown(out io.Writer, b *presenter.Breakdown) {
	fmt.Fprintln(out, b.Title)
	if b.Amount != "" {
		fmt.Fprintf(out, "%s (%s)\n", b.Amount, b.Method)
	}
	if b.Message != "" {
		fmt.Fprintln(out, b.Message)
	}

	if len(b.Rows) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, row := range b.Rows {
			fmt.Fprintf(w, "%s\t%s\n", row.Label, row.Value)
		}
		_ = w.Flush()
	}

	if len(b.Comparison) > 0 {
		fmt.Fprintln(out)
		for _, m := range b.Comparison {
			marker := " "
			if m.Favourable {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s: %s\n", marker, m.Label, m.Quota)
		}
	}

	if b.Notice != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s Fecha límite: %s\n", b.Notice, b.DueDate)
	}
	if b.TownHall != nil {
		fmt.Fprintln(out, b.TownHall.Label)
		if b.TownHall.URL != "" {
			fmt.Fprintln(out, b.TownHall.URL)
		}
	}
}
