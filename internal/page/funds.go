package page

import (
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
)

// FundsPage maintains the monetary funds
type FundsPage = CRUDPage[domain.MonetaryFund, domain.MonetaryFundDraft]

// FundsState is a snapshot of a FundsPage
type FundsState = CRUDState[domain.MonetaryFund, domain.MonetaryFundDraft]

var fundBinding = binding[domain.MonetaryFund, domain.MonetaryFundDraft]{
	entity:    websocket.EntityTypeFund,
	id:        func(f *domain.MonetaryFund) int64 { return f.ID },
	name:      func(f *domain.MonetaryFund) string { return f.Name },
	blank:     domain.NewMonetaryFundDraft,
	draft:     (*domain.MonetaryFund).Draft,
	apply:     (*domain.MonetaryFund).Apply,
	normalize: domain.MonetaryFundDraft.Normalize,
	validate:  domain.MonetaryFundDraft.Validate,
}

func NewFundsPage(repo domain.MonetaryFundRepository, opts ...Option) *FundsPage {
	return newCRUDPage[domain.MonetaryFund, domain.MonetaryFundDraft](repo, fundBinding, opts)
}
