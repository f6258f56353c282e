// The storefront binary runs the client interaction core against a real
// server, or against the built-in stub when no base URL is configured, and
// drives it from a line-oriented prompt.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/sportshop/frontend/internal/app"
	"github.com/sportshop/frontend/internal/checkout"
	"github.com/sportshop/frontend/internal/review"
	"github.com/sportshop/frontend/internal/stubserver"
	"github.com/sportshop/frontend/pkg/config"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	csrfToken := uuid.NewString()

	if cfg.API.BaseURL == "" {
		baseURL, err := startStubServer(cfg, logg, registry, csrfToken)
		if err != nil {
			logg.Error(context.Background(), "failed to start stub server", err)
			os.Exit(1)
		}
		cfg.API.BaseURL = baseURL
	}

	stdin := bufio.NewReader(os.Stdin)
	doc := &terminalDocument{token: csrfToken, path: "/catalog/"}

	core, err := app.New(app.Params{
		Config:    cfg,
		Logger:    logg,
		Document:  doc,
		Confirmer: &terminalConfirmer{in: stdin},
		Sink:      terminalSink{},
		Views: app.Views{
			Cart:     terminalCartView{},
			Search:   terminalSearchView{},
			Review:   terminalReviewView{},
			Checkout: terminalCheckoutView{},
		},
		Subtotal: decimal.NewFromInt(1500),
		Metrics:  metrics.NewRequestMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to assemble interaction core", err)
		os.Exit(1)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logg.Error(context.Background(), "error closing interaction core", err)
		}
	}()

	ctx := logg.WithField(context.Background(), "base_url", cfg.API.BaseURL)
	logg.Info(ctx, "storefront core ready")

	runPrompt(ctx, core, doc, stdin)
}

func startStubServer(cfg *config.Config, logg *logger.Logger, registry *prometheus.Registry, csrfToken string) (string, error) {
	srv, err := stubserver.New(stubserver.Params{
		Logger:    logg,
		CSRFToken: csrfToken,
		Registry:  registry,
	})
	if err != nil {
		return "", err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	go func() {
		server := &http.Server{Handler: srv.Handler()}
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logg.Error(context.Background(), "stub server stopped unexpectedly", err)
		}
	}()
	return "http://" + listener.Addr().String(), nil
}

const promptHelp = `команды:
  add <id> <кол-во>            добавить товар в корзину
  qty <id> <кол-во>            изменить количество
  remove <id>                  удалить товар из корзины
  search <запрос>              живой поиск
  go <url>                     перейти на страницу (/cart/, /catalog/, ...)
  review <id> <оценка> <текст> оставить отзыв
  delivery <pickup|courier|post|cdek>
  pay <card|cash|invoice>
  quit`

func runPrompt(ctx context.Context, core *app.App, doc *terminalDocument, stdin *bufio.Reader) {
	fmt.Println(promptHelp)
	for {
		fmt.Printf("%s> ", doc.Path())
		line, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "add":
			if len(fields) != 3 {
				fmt.Println("использование: add <id> <кол-во>")
				continue
			}
			qty, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("количество должно быть числом")
				continue
			}
			core.Cart.AddToCart(ctx, fields[1], qty)
		case "qty":
			if len(fields) != 3 {
				fmt.Println("использование: qty <id> <кол-во>")
				continue
			}
			qty, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("количество должно быть числом")
				continue
			}
			core.Cart.SetQuantity(ctx, fields[1], qty)
		case "remove":
			if len(fields) != 2 {
				fmt.Println("использование: remove <id>")
				continue
			}
			core.Cart.Remove(ctx, fields[1])
		case "search":
			query := strings.TrimSpace(strings.TrimPrefix(line, "search"))
			core.Search.SetQuery(ctx, query)
		case "go":
			if len(fields) != 2 {
				fmt.Println("использование: go <url>")
				continue
			}
			doc.SetPath(fields[1])
		case "review":
			if len(fields) < 4 {
				fmt.Println("использование: review <id> <оценка> <текст>")
				continue
			}
			rating, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("оценка должна быть числом")
				continue
			}
			core.Review.Submit(ctx, fields[1], review.Draft{
				Rating:  rating,
				Comment: strings.Join(fields[3:], " "),
			})
		case "delivery":
			if len(fields) != 2 {
				fmt.Println("использование: delivery <способ>")
				continue
			}
			core.Checkout.SelectDelivery(checkout.DeliveryMethod(fields[1]))
		case "pay":
			if len(fields) != 2 {
				fmt.Println("использование: pay <способ>")
				continue
			}
			core.Checkout.SelectPayment(checkout.PaymentMethod(fields[1]))
		case "quit", "exit":
			return
		default:
			fmt.Println(promptHelp)
		}
	}
}
