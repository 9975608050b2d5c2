package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"market_trends/internal/app/di"
	analysisusecase "market_trends/internal/feature/analysis/usecase"
	"market_trends/internal/feature/quotes/adapters/alphavantage"
	qentity "market_trends/internal/feature/quotes/domain/entity"
	platformredis "market_trends/internal/platform/redis"
)

func main() {
	symbol := flag.String("symbol", "", "ticker symbol (e.g. AAPL)")
	start := flag.String("start", "2023-01-01", "first date of the window (YYYY-MM-DD)")
	end := flag.String("end", "2023-12-31", "last date of the window (YYYY-MM-DD)")
	horizon := flag.Int("horizon", 30, "days to forecast (1-365)")
	outputSize := flag.String("outputsize", "full", "compact or full")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	size, err := qentity.ParseOutputSize(*outputSize)
	if err != nil {
		log.Fatal(err)
	}
	startDate, err := qentity.ParseDate(*start)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}
	endDate, err := qentity.ParseDate(*end)
	if err != nil {
		log.Fatalf("invalid end date: %v", err)
	}

	// Redisが設定されていればキャッシュを使う
	rdb, err := platformredis.NewRedisClient()
	if err != nil {
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	uc := analysisusecase.NewAnalysisUsecase(di.NewQuoteFetcher(alphavantage.LoadConfig(), rdb))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := uc.Run(ctx, analysisusecase.Request{
		Symbol:     *symbol,
		OutputSize: size,
		Window:     qentity.NewDateWindow(startDate, endDate),
		Horizon:    *horizon,
	})
	if err != nil {
		log.Fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME\n")
	for _, r := range res.Series.Records() {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
			r.Date.Format(qentity.DateLayout), r.Open, r.High, r.Low, r.Close, r.Volume)
	}
	_ = w.Flush()

	fmt.Printf("\n%s: slope=%.6f intercept=%.4f mse=%.4f (train=%d test=%d dropped=%d)\n\n",
		res.Symbol, res.Trend.Slope, res.Trend.Intercept, res.Trend.TrainError,
		res.Trend.TrainSize, res.Trend.TestSize, res.Dropped)

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tPREDICTED_CLOSE\n")
	for _, p := range res.Forecast {
		fmt.Fprintf(w, "%s\t%.4f\n", p.Date.Format(qentity.DateLayout), p.PredictedClose)
	}
	_ = w.Flush()
}
