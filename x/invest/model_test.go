package invest

import (
	"math"
	"testing"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/vesttest"
	"github.com/vestnet/vest/vesttest/assert"
)

func TestEscrowPoolArithmetic(t *testing.T) {
	p := &EscrowPool{ReleaseAuthority: vesttest.NewCondition().Address()}
	assert.Nil(t, p.Credit(500))
	assert.Nil(t, p.Credit(250))
	assert.Equal(t, uint64(750), p.TotalEscrow)
	assert.Equal(t, uint64(2), p.OpenPositions)

	assert.Nil(t, p.Debit(700))
	assert.Equal(t, uint64(50), p.TotalEscrow)
	assert.IsErr(t, errors.ErrUnderflow, p.Debit(51))
	assert.Equal(t, uint64(50), p.TotalEscrow)

	assert.IsErr(t, errors.ErrOverflow, p.Credit(math.MaxUint64))
	assert.Equal(t, uint64(50), p.TotalEscrow)
	assert.Equal(t, uint64(2), p.OpenPositions)

	assert.IsErr(t, errors.ErrUnderflow, p.ClosePositions(3))
	assert.Nil(t, p.ClosePositions(2))
	assert.Equal(t, uint64(0), p.OpenPositions)
}

func TestOpportunityRaise(t *testing.T) {
	o := &Opportunity{TargetAmount: 100, Status: OpportunityActive}
	assert.Nil(t, o.Raise(60))
	assert.Equal(t, OpportunityActive, o.Status)
	assert.Nil(t, o.Raise(60))
	assert.Equal(t, OpportunityFunded, o.Status)
	assert.Equal(t, uint64(120), o.TotalRaised)

	assert.IsErr(t, errors.ErrOverflow, o.Raise(math.MaxUint64))
	assert.Equal(t, uint64(120), o.TotalRaised)

	assert.IsErr(t, ErrInsufficientFunds, o.Withdraw(121))
	assert.Nil(t, o.Withdraw(100))
	assert.Equal(t, uint64(20), o.Available())
}

func TestOpportunityStatusTransitions(t *testing.T) {
	all := []OpportunityStatus{OpportunityActive, OpportunityFunded, OpportunityCompleted, OpportunityCancelled}
	allowed := map[[2]OpportunityStatus]bool{
		{OpportunityActive, OpportunityFunded}:    true,
		{OpportunityActive, OpportunityCancelled}: true,
		{OpportunityFunded, OpportunityCompleted}: true,
		{OpportunityFunded, OpportunityCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]OpportunityStatus{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: want %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestModelValidation(t *testing.T) {
	addr := vesttest.NewCondition().Address()
	longID := string(make([]byte, maxIDLength+1))

	cases := map[string]struct {
		model    interface{ Validate() error }
		wantErrs map[string]*errors.Error
	}{
		"valid opportunity": {
			model: &Opportunity{ID: "o", Name: "n", Admin: addr, TargetAmount: 1, CreatedAt: 1},
			wantErrs: map[string]*errors.Error{
				"ID":           nil,
				"TargetAmount": nil,
			},
		},
		"invalid opportunity": {
			model: &Opportunity{ID: longID, Admin: addr, TotalRaised: 1, TotalWithdrawn: 2, ExpectedYieldBps: 10001, Status: 9, CreatedAt: 1},
			wantErrs: map[string]*errors.Error{
				"ID":               errors.ErrInput,
				"Name":             errors.ErrInput,
				"TargetAmount":     errors.ErrAmount,
				"TotalWithdrawn":   errors.ErrState,
				"ExpectedYieldBps": errors.ErrInput,
				"Status":           errors.ErrInput,
			},
		},
		"invalid position": {
			model: &Position{Depositor: vest.Address("short"), TargetID: "", ExpectedReturn: 101, DepositedAt: 1},
			wantErrs: map[string]*errors.Error{
				"Depositor":      errors.ErrInput,
				"TargetID":       errors.ErrInput,
				"Principal":      errors.ErrAmount,
				"ExpectedReturn": ErrInvalidReturn,
			},
		},
		"too many admins": {
			model: &AdminList{Admins: make([]vest.Address, maxAdmins+1)},
			wantErrs: map[string]*errors.Error{
				"Admins": errors.ErrInput,
			},
		},
		"duplicated admin": {
			model: &AdminList{Admins: []vest.Address{addr, addr}},
			wantErrs: map[string]*errors.Error{
				"Admins.0": nil,
				"Admins.1": errors.ErrDuplicate,
			},
		},
		"invalid config": {
			model: &Config{Owner: addr, MinDeposit: 2, MaxDeposit: 1, FeeBps: 10001, Ticker: "x"},
			wantErrs: map[string]*errors.Error{
				"Owner":      nil,
				"MinDeposit": errors.ErrInput,
				"FeeBps":     errors.ErrInput,
				"Ticker":     errors.ErrCurrency,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.model.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestDerivedKeys(t *testing.T) {
	alice := vesttest.NewCondition().Address()
	bob := vesttest.NewCondition().Address()

	assert.Equal(t, PositionKey(alice, "x"), PositionKey(alice, "x"))
	assert.Equal(t, OpportunityKey("x"), OpportunityKey("x"))

	keys := [][]byte{
		PoolAddress(),
		AdminListKey(),
		OpportunityKey("x"),
		OpportunityKey("y"),
		PositionKey(alice, "x"),
		PositionKey(alice, "y"),
		PositionKey(bob, "x"),
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[string(k)] {
			t.Fatalf("key %X derived twice", k)
		}
		seen[string(k)] = true
		assert.Nil(t, vest.Address(k).Validate())
	}
}
