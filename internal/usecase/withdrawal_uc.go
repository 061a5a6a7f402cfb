// File: internal/usecase/withdrawal_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/model"
	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ WithdrawalUseCase = (*withdrawalUC)(nil)

type WithdrawalUseCase interface {
	// Withdraw resolves the purse and payway by name, checks the balance and submits
	// the withdrawal. It stops at the first failing step: purse, balance, payway, submission.
	Withdraw(ctx context.Context, order model.WithdrawalOrder) (json.RawMessage, error)
}

type withdrawalUC struct {
	gateway adapter.WithdrawalGateway
	log     *zerolog.Logger
	dev     bool
}

func NewWithdrawalUseCase(gateway adapter.WithdrawalGateway, logger *zerolog.Logger, dev bool) *withdrawalUC {
	return &withdrawalUC{gateway: gateway, log: logger, dev: dev}
}

func (u *withdrawalUC) Withdraw(ctx context.Context, order model.WithdrawalOrder) (payload json.RawMessage, err error) {
	defer logging.TraceDuration(u.log, "WithdrawalUC.Withdraw")()

	order = order.WithDefaults()
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	ctx = logging.WithPaymentNo(ctx, order.PaymentNo)
	l := logging.With(ctx, u.log)

	stage := model.StageStart
	defer func() {
		if err != nil {
			metrics.IncWithdrawal(string(model.StageFailed), string(stage), domain.KindOf(err).String())
			l.Warn().Err(err).Str("stage", string(stage)).Str("kind", domain.KindOf(err).String()).Msg("withdrawal failed")
			return
		}
		metrics.IncWithdrawal(string(model.StageSucceeded), string(stage), "")
	}()

	purses, err := u.gateway.Purses(ctx)
	if err != nil {
		return nil, err
	}
	purse, ok := model.FindPurse(purses, order.PurseName)
	if !ok {
		return nil, domain.ErrPurseNotFound
	}
	stage = model.StagePurseResolved

	if !purse.Covers(order.Amount) {
		return nil, &domain.InsufficientBalanceError{Balance: purse.Balance, Amount: order.Amount}
	}
	stage = model.StageBalanceChecked

	payways, err := u.gateway.OutputPayways(ctx)
	if err != nil {
		return nil, err
	}
	payway, ok := model.FindPayway(payways, order.PaywayAlias)
	if !ok {
		return nil, domain.ErrPaywayNotFound
	}
	stage = model.StagePaywayResolved

	if missing := payway.MissingDetails(order.Details); len(missing) > 0 {
		l.Warn().Str("payway", payway.Alias).Strs("missing_details", missing).Msg("withdrawal details incomplete; the gateway may reject it")
	}

	res, err := u.gateway.CreateWithdraw(ctx, model.WithdrawalRequest{
		Amount:    order.Amount,
		PaywayID:  payway.ID,
		Details:   order.Details,
		PurseID:   purse.ID,
		CalcKey:   order.CalcKey,
		Action:    order.Action,
		PaymentNo: order.PaymentNo,
	})
	stage = model.StageSubmitted
	if err != nil {
		return nil, submissionError(err)
	}
	if !res.Succeeded() {
		return nil, submissionError(&domain.GatewayError{Code: res.ResultCode, Message: res.ResultMessage})
	}
	stage = model.StageSucceeded

	l.Info().
		Str("purse_id", logging.Redact(purse.ID, u.dev)).
		Str("payway", payway.Alias).
		Str("amount", order.Amount.String()).
		Str("action", order.Action).
		Msg("withdrawal accepted")
	return res.Transaction, nil
}

// submissionError re-surfaces gateway failures of the submission step as
// "http exception: <inner message>". Other kinds pass through untouched.
func submissionError(err error) error {
	var ge *domain.GatewayError
	if !errors.As(err, &ge) {
		return err
	}
	return &domain.GatewayError{
		StatusCode: ge.StatusCode,
		Code:       ge.Code,
		Message:    "http exception: " + strings.TrimPrefix(err.Error(), "gateway: "),
		Err:        err,
	}
}

func validateOrder(o model.WithdrawalOrder) error {
	switch {
	case strings.TrimSpace(o.PurseName) == "":
		return domain.InvalidInput("purse name is empty")
	case strings.TrimSpace(o.PaywayAlias) == "":
		return domain.InvalidInput("payway alias is empty")
	case !o.Amount.IsPositive():
		return domain.InvalidInput("amount must be positive, got %s", o.Amount.String())
	}
	return nil
}
