package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/poi-crawler/internal/bootstrap"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	exportQuery  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить точки в CSV или GeoJSON (WGS-84)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			var w io.Writer = os.Stdout
			if exportOutput != "" && exportOutput != "-" {
				f, err := os.Create(exportOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch exportFormat {
			case "csv":
				n, err := app.ExportUC.WriteCSV(cmd.Context(), w, exportQuery)
				if err != nil {
					return err
				}
				okColor.Fprintf(os.Stderr, "exported %d rows\n", n)
				return nil
			case "geojson":
				fc, err := app.ExportUC.GetGeoJSON(cmd.Context(), exportQuery)
				if err != nil {
					return err
				}
				if err := json.NewEncoder(w).Encode(fc); err != nil {
					return err
				}
				okColor.Fprintf(os.Stderr, "exported %d features\n", len(fc.Features))
				return nil
			default:
				return fmt.Errorf("unknown format %q (csv|geojson)", exportFormat)
			}
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Число точек по запросам",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			counts, err := app.ExportUC.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range counts {
				fmt.Printf("%-12s %d\n", c.SourceQuery, c.Count)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv или geojson")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "файл вывода, - для stdout")
	exportCmd.Flags().StringVar(&exportQuery, "source-query", "", "фильтр по запросу")
	rootCmd.AddCommand(exportCmd, categoriesCmd)
}
