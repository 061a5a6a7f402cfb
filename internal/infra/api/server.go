package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/model"
	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/redis"
	"interkassa-merchant/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

var errGatewayDisabled = fmt.Errorf("%w: gateway API credentials are not configured", domain.ErrConfiguration)

type Options struct {
	// APIKey guards /api/v1 with a bearer token; the notification route stays public.
	APIKey string
	// Limiter throttles withdrawal submissions per caller; nil disables it.
	Limiter        Limiter
	RequestTimeout time.Duration
}

// Server exposes the checkout, notification, withdrawal and listing routes.
// withdrawals and resources are nil when the gateway API is not configured.
type Server struct {
	payments    usecase.PaymentUseCase
	withdrawals usecase.WithdrawalUseCase
	resources   adapter.ResourceGateway
	validate    *validator.Validate
	log         *zerolog.Logger
	opts        Options
}

func NewServer(payments usecase.PaymentUseCase, withdrawals usecase.WithdrawalUseCase, resources adapter.ResourceGateway, logger *zerolog.Logger, opts Options) *Server {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{
		payments:    payments,
		withdrawals: withdrawals,
		resources:   resources,
		validate:    v,
		log:         logger,
		opts:        opts,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))

		r.Post("/payments/notify", s.handleNotify)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.opts.APIKey, s.log))

			r.Post("/payments", s.handleCheckout)
			r.With(RateLimit(s.opts.Limiter, callerKey, s.log)).Post("/withdrawals", s.handleWithdraw)

			r.Get("/accounts", s.list(adapter.ResourceGateway.Accounts))
			r.Get("/withdrawals", s.list(adapter.ResourceGateway.Withdraws))
			r.Get("/withdrawals/{id}", s.handleWithdrawByID)
			r.Get("/purses", s.list(adapter.ResourceGateway.PursesRaw))
			r.Get("/checkouts", s.list(adapter.ResourceGateway.Checkouts))
			r.Get("/invoices", s.list(adapter.ResourceGateway.CoInvoices))
			r.Get("/currencies", s.list(adapter.ResourceGateway.Currencies))
			r.Get("/payways/input", s.list(adapter.ResourceGateway.InputPayways))
			r.Get("/payways/output", s.list(adapter.ResourceGateway.OutputPaywaysRaw))
		})
	})
	return r
}

// callerKey scopes the withdrawal limit to the client address.
func callerKey(r *http.Request) string {
	return redis.WithdrawalKey(clientIP(r))
}

type checkoutBody struct {
	Params map[string]string `json:"params" validate:"required,min=1"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var body checkoutBody
	if err := s.decode(r, &body); err != nil {
		writeDomainError(w, err)
		return
	}
	link, err := s.payments.CheckoutURL(r.Context(), body.Params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, link, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: link})
}

// handleNotify answers the gateway's interaction call in plain text.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	params := make(map[string]string, len(r.Form))
	for k, vs := range r.Form {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	if _, err := s.payments.VerifyNotification(r.Context(), params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

type withdrawalBody struct {
	PaymentNo string            `json:"payment_no" validate:"omitempty,max=64"`
	Purse     string            `json:"purse" validate:"required"`
	Payway    string            `json:"payway" validate:"required"`
	Details   map[string]string `json:"details"`
	Amount    decimal.Decimal   `json:"amount"`
	CalcKey   string            `json:"calc_key" validate:"omitempty,alphanum"`
	Action    string            `json:"action" validate:"omitempty,oneof=calc process"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if s.withdrawals == nil {
		writeDomainError(w, errGatewayDisabled)
		return
	}
	var body withdrawalBody
	if err := s.decode(r, &body); err != nil {
		writeDomainError(w, err)
		return
	}
	tx, err := s.withdrawals.Withdraw(r.Context(), model.WithdrawalOrder{
		PaymentNo:   body.PaymentNo,
		PurseName:   body.Purse,
		PaywayAlias: body.Payway,
		Details:     body.Details,
		Amount:      body.Amount,
		CalcKey:     body.CalcKey,
		Action:      body.Action,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, tx)
}

func (s *Server) handleWithdrawByID(w http.ResponseWriter, r *http.Request) {
	if s.resources == nil {
		writeDomainError(w, errGatewayDisabled)
		return
	}
	data, err := s.resources.WithdrawByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, data)
}

func (s *Server) list(get func(adapter.ResourceGateway, context.Context) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.resources == nil {
			writeDomainError(w, errGatewayDisabled)
			return
		}
		data, err := get(s.resources, r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeRaw(w, data)
	}
}

// decode reads a JSON body into dst and runs struct validation; failures are invalid input.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidInput("request body is empty")
		}
		return domain.InvalidInput("malformed request body: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" failed "+fe.Tag())
			}
			return domain.InvalidInput("%s", strings.Join(fields, "; "))
		}
		return domain.InvalidInput("%v", err)
	}
	return nil
}
