package service

import (
	"context"
	"fmt"

	"galli2globe/internal/currency"
	"galli2globe/internal/domain"

	"github.com/rs/zerolog"
)

// CurrencyService persists the site-wide currency selection and formats
// catalog prices for display.
type CurrencyService struct {
	store  domain.RecordStore
	table  *currency.Table
	logger *zerolog.Logger
}

func NewCurrencyService(store domain.RecordStore, table *currency.Table, logger *zerolog.Logger) *CurrencyService {
	if table == nil {
		table = currency.DefaultTable()
	}
	return &CurrencyService{
		store:  store,
		table:  table,
		logger: logger,
	}
}

// Current returns the persisted selection, or the reference currency when
// nothing valid is stored.
func (s *CurrencyService) Current(ctx context.Context) string {
	code, err := s.store.Currency(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read currency selection")
		return s.table.Reference()
	}
	if !s.table.Known(code) {
		return s.table.Reference()
	}
	return code
}

// Set persists the selection; all subsequent FormatPrice calls use it.
func (s *CurrencyService) Set(ctx context.Context, code string) error {
	if !s.table.Known(code) {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return s.store.SetCurrency(ctx, code)
}

// FormatPrice renders a canonical price in the active currency.
func (s *CurrencyService) FormatPrice(ctx context.Context, amount int64, showDecimals bool) string {
	return s.table.Format(amount, s.Current(ctx), showDecimals)
}

// Codes lists the selectable currency codes in display order.
func (s *CurrencyService) Codes() []string {
	return s.table.Codes()
}
