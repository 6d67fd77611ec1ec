// Command charttest fetches the three chart series for a ticker from the live
// API and prints their sizes and first/last candles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/rickgao/pricestamp/internal/api"
	"github.com/rickgao/pricestamp/internal/config"
	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/model"
)

func main() {
	ticker := flag.String("ticker", "GOOG", "ticker symbol")
	days := flag.Int("days", 7, "number of days back from now")
	baseURL := flag.String("base-url", config.DefaultBaseURL, "chart API base URL")
	flag.Parse()

	session, err := market.NewYorkSession()
	if err != nil {
		log.Fatalf("load session: %v", err)
	}

	client := api.NewClient(*baseURL, api.WithTimeout(30*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	requests := []struct {
		interval model.Interval
		prepost  bool
	}{
		{model.Interval1h, true},
		{model.Interval1h, false},
		{model.Interval1d, false},
	}

	for _, r := range requests {
		series, err := client.GetChart(ctx, api.ChartRequest{
			Ticker:   *ticker,
			Start:    start,
			End:      end,
			Interval: r.interval,
			PrePost:  r.prepost,
			Location: session.Location,
		})
		if err != nil {
			log.Fatalf("GetChart %s failed: %v", r.interval, err)
		}

		fmt.Printf("=== %s %s ===\n", *ticker, series.Name())
		fmt.Printf("Candles: %d\n", series.Len())
		if series.Empty() {
			continue
		}
		first, last := series.Candles[0], series.Candles[series.Len()-1]
		fmt.Printf("First: %s open %.2f close %.2f\n", first.Time.Format("2006-01-02 15:04 MST"), first.Open, first.Close)
		fmt.Printf("Last:  %s open %.2f close %.2f\n", last.Time.Format("2006-01-02 15:04 MST"), last.Open, last.Close)
	}

	fmt.Println("\n=== All chart requests passed! ===")
}
