package domain

import (
	"time"

	"github.com/google/uuid"
)

// DepositType тип вклада
type DepositType string

const (
	DepositTerm   DepositType = "Term"
	DepositDemand DepositType = "Demand"
)

// DepositStatus статус вклада
type DepositStatus string

const (
	DepositActive DepositStatus = "Active"
	DepositClosed DepositStatus = "Closed"
)

// DepositTransaction запись журнала операций по вкладу
type DepositTransaction struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	Amount float64   `json:"amount"`
	At     time.Time `json:"at"`
}

// Deposit запись о вкладе. У вкладов до востребования ставка и срок нулевые,
// даты погашения нет.
type Deposit struct {
	ID                string               `json:"id"`
	CustomerID        string               `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	Type              DepositType          `json:"type"`
	Principal         float64              `json:"principal"`
	AnnualRatePercent float64              `json:"annual_rate_percent"`
	StartDate         time.Time            `json:"start_date"`
	TermMonths        int                  `json:"term_months"`
	MaturityDate      *time.Time           `json:"maturity_date,omitempty"`
	Status            DepositStatus        `json:"status"`
	Transactions      []DepositTransaction `json:"transactions,omitempty"`
}

// NewTermDeposit открывает срочный вклад и вычисляет дату погашения.
func NewTermDeposit(id, customerID, customerName string, principal, annualRatePercent float64,
	termMonths int, startDate time.Time) *Deposit {
	maturity := startDate.AddDate(0, termMonths, 0)
	d := &Deposit{
		ID:                orNewID(id),
		CustomerID:        customerID,
		CustomerName:      customerName,
		Type:              DepositTerm,
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		StartDate:         startDate,
		TermMonths:        termMonths,
		MaturityDate:      &maturity,
		Status:            DepositActive,
	}
	d.Record("open", principal, startDate)
	return d
}

// NewDemandDeposit открывает вклад до востребования.
func NewDemandDeposit(id, customerID, customerName string, principal float64, startDate time.Time) *Deposit {
	d := &Deposit{
		ID:           orNewID(id),
		CustomerID:   customerID,
		CustomerName: customerName,
		Type:         DepositDemand,
		Principal:    principal,
		StartDate:    startDate,
		Status:       DepositActive,
	}
	d.Record("open", principal, startDate)
	return d
}

// Record дописывает операцию в журнал
func (d *Deposit) Record(kind string, amount float64, at time.Time) {
	d.Transactions = append(d.Transactions, DepositTransaction{
		ID:     uuid.New(),
		Kind:   kind,
		Amount: amount,
		At:     at,
	})
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
