package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, view model.PortfolioView) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(view.Holdings) == 0 {
		return nil, "", errors.New("empty portfolio")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSheet(f, view); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, view model.PortfolioView) error {
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "H1"); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Holdings")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "symbol")
	_ = f.SetCellStr(sheetName, "B2", "shares")
	_ = f.SetCellStr(sheetName, "C2", "reference price")
	_ = f.SetCellStr(sheetName, "D2", "market value")
	_ = f.SetCellStr(sheetName, "E2", "% of portfolio")
	_ = f.SetCellStr(sheetName, "F2", "dividend/share")
	_ = f.SetCellStr(sheetName, "G2", "frequency")
	_ = f.SetCellStr(sheetName, "H2", "next dividend")

	percentBySymbol := make(map[string]string, len(view.Distribution))
	for _, slice := range view.Distribution {
		percentBySymbol[slice.Symbol] = slice.Percent.StringFixed(1) + "%"
	}

	for i, holding := range view.Holdings {
		row := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), holding.Symbol)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), holding.Shares.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), holding.ReferencePrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), holding.MarketValue().InexactFloat64())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", row), percentBySymbol[holding.Symbol])
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), holding.DividendPerShare.InexactFloat64())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), string(holding.DividendFrequency))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("H%d", row), holding.NextDividendDate)
	}

	rowNum := len(view.Holdings) + 4

	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum)); err != nil {
		return err
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "Summary")

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#d9ead3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), summaryStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "total value")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), view.Summary.TotalValue.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "projected annual dividend")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), view.Summary.ProjectedAnnualDividend.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "holdings")
	_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", rowNum), int64(view.Summary.HoldingsCount))

	return nil
}
