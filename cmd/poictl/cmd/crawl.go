package cmd

import (
	"fmt"

	"github.com/poi-crawler/internal/bootstrap"
	"github.com/poi-crawler/internal/usecase/dto"
	"github.com/spf13/cobra"
)

var (
	crawlAK        string
	crawlProvince  string
	crawlCity      string
	crawlDistrict  string
	crawlQueries   string
	crawlQPS       float64
	crawlCityLimit bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Обойти выбранные регионы по списку запросов",
	Example: `  poictl crawl --province 甘肃省 --city 兰州市 --queries 美食,酒店
  poictl crawl --province 北京市 --city all --qps 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *bootstrap.App) error {
			req := dto.CrawlRequest{
				APIKey:   crawlAK,
				Province: crawlProvince,
				City:     crawlCity,
				District: crawlDistrict,
				Queries:  crawlQueries,
			}
			if req.APIKey == "" {
				req.APIKey = app.Config.Baidu.AccessKey
			}
			if cmd.Flags().Changed("qps") {
				req.QPS = &crawlQPS
			}
			if cmd.Flags().Changed("city-limit") {
				req.CityLimit = &crawlCityLimit
			}

			summary, err := app.CrawlUC.CrawlBatch(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, r := range summary.PerRegion {
				okColor.Printf("%-16s", r.Region)
				fmt.Printf(" %d\n", r.InsertedOrUpdated)
			}
			for _, e := range summary.Errors {
				warnColor.Printf("%-16s %s\n", e.Region, e.Error)
			}
			fmt.Printf("batch %s: %d rows from %d regions in %dms\n",
				summary.BatchID, summary.InsertedOrUpdated, len(summary.Regions), summary.DurationMS)
			return nil
		})
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlAK, "ak", "", "ключ Baidu API (по умолчанию BAIDU_AK)")
	crawlCmd.Flags().StringVar(&crawlProvince, "province", "", "провинция")
	crawlCmd.Flags().StringVar(&crawlCity, "city", "all", "город или all")
	crawlCmd.Flags().StringVar(&crawlDistrict, "district", "all", "район или all")
	crawlCmd.Flags().StringVar(&crawlQueries, "queries", "", "запросы через запятую; пусто - набор по умолчанию")
	crawlCmd.Flags().Float64Var(&crawlQPS, "qps", 2.0, "запросов в секунду")
	crawlCmd.Flags().BoolVar(&crawlCityLimit, "city-limit", true, "ограничить выдачу регионом")
	_ = crawlCmd.MarkFlagRequired("province")
	rootCmd.AddCommand(crawlCmd)
}
