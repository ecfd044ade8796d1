package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poi-crawler/internal/bootstrap"
	"github.com/poi-crawler/internal/domain"
	"github.com/spf13/cobra"
)

var (
	regionsAK      string
	regionsRefresh bool
	regionsJSON    bool
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Показать иерархию провинция -> город -> районы",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			ak := regionsAK
			if ak == "" {
				ak = app.Config.Baidu.AccessKey
			}

			regions, err := app.RegionUC.Resolve(cmd.Context(), domain.ResolveOptions{
				APIKey:         ak,
				ForceRefresh:   regionsRefresh,
				ExcludeHKMacau: app.Config.Region.ExcludeHKMacau,
				ExcludeTaiwan:  app.Config.Region.ExcludeTaiwan,
			})
			if err != nil {
				return err
			}

			if regionsJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(regions)
			}

			for _, p := range regions.Provinces {
				okColor.Println(p.Name)
				for _, c := range p.Cities {
					fmt.Printf("  %s (%d)\n", c.Name, len(c.Districts))
				}
			}
			return nil
		})
	},
}

func init() {
	regionsCmd.Flags().StringVar(&regionsAK, "ak", "", "ключ Baidu API (по умолчанию BAIDU_AK)")
	regionsCmd.Flags().BoolVar(&regionsRefresh, "refresh", false, "перечитать иерархию из API")
	regionsCmd.Flags().BoolVar(&regionsJSON, "json", false, "вывести JSON")
	rootCmd.AddCommand(regionsCmd)
}
