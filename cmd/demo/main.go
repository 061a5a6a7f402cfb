// Command demo prints a signed checkout link and, when API credentials are
// configured, the purses visible to the business account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"interkassa-merchant/internal/config"
	"interkassa-merchant/internal/infra/interkassa"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/memstore"
	"interkassa-merchant/internal/infra/signature"
	"interkassa-merchant/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", true, "sign with the test key")
	amount := flag.String("amount", "1.00", "ik_am")
	currency := flag.String("currency", "UAH", "ik_cur")
	desc := flag.String("desc", "Demo payment", "ik_desc")
	flag.Parse()

	// 1. Load config
	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(config.LogConfig{Level: "warn", Format: "console"}, cfg.Runtime.Dev)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// 2. Checkout link
	signer, err := signature.NewSigner(cfg.Interkassa.SecretKey, cfg.Interkassa.TestKey, cfg.Interkassa.SignAlgo, cfg.Runtime.Dev)
	if err != nil {
		log.Fatalf("signer: %v", err)
	}
	payUC := usecase.NewPaymentUseCase(signer, cfg.Interkassa.CoID, cfg.Interkassa.SCIURL, logger)
	link, err := payUC.CheckoutURL(ctx, map[string]string{
		"ik_am":   *amount,
		"ik_cur":  *currency,
		"ik_desc": *desc,
	})
	if err != nil {
		log.Fatalf("checkout link: %v", err)
	}
	fmt.Println(link)

	if !cfg.APIEnabled() {
		return
	}

	// 3. Purses through the gateway API
	client, err := interkassa.NewClient(cfg.Interkassa.APIURL, cfg.Interkassa.APIUserID, cfg.Interkassa.APIUserKey,
		&http.Client{Timeout: cfg.Interkassa.Timeout}, cfg.Interkassa.Timeout, logger)
	if err != nil {
		log.Fatalf("client: %v", err)
	}
	cache := memstore.New()
	gateway := interkassa.NewGateway(client, interkassa.NewAccountResolver(client, cache, logger, cfg.Runtime.Dev), cache, logger)

	purses, err := gateway.Purses(ctx)
	if err != nil {
		log.Fatalf("purses: %v", err)
	}
	for _, p := range purses {
		fmt.Fprintf(os.Stdout, "%-12s %-24s %s %s\n", p.ID, p.Name, p.Balance.StringFixed(2), p.Currency)
	}
}
