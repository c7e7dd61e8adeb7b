package invest

import (
	"testing"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/vesttest"
	"github.com/vestnet/vest/vesttest/assert"
)

func TestMsgValidate(t *testing.T) {
	addr := vesttest.NewCondition().Address()

	cases := map[string]struct {
		msg     vest.Msg
		wantErr *errors.Error
	}{
		"valid deposit": {
			msg: &DepositMsg{Depositor: addr, TargetID: "pool", Amount: 1},
		},
		"zero deposit": {
			msg:     &DepositMsg{Depositor: addr, TargetID: "pool"},
			wantErr: ErrAmountTooSmall,
		},
		"deposit without target": {
			msg:     &DepositMsg{Depositor: addr, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"opportunity with empty name": {
			msg:     &CreateOpportunityMsg{ID: "x", TargetAmount: 1},
			wantErr: errors.ErrInput,
		},
		"opportunity without target": {
			msg:     &CreateOpportunityMsg{ID: "x", Name: "x"},
			wantErr: errors.ErrAmount,
		},
		"opportunity name too long": {
			msg:     &CreateOpportunityMsg{ID: "x", Name: string(make([]byte, maxNameLength+1)), TargetAmount: 1},
			wantErr: errors.ErrInput,
		},
		"release nothing": {
			msg:     &ReleaseFundsMsg{TargetID: "pool", Destination: addr},
			wantErr: errors.ErrAmount,
		},
		"release without destination": {
			msg:     &ReleaseFundsMsg{TargetID: "pool", Amount: 1},
			wantErr: errors.ErrInput,
		},
		"withdraw to the signer": {
			msg: &WithdrawForUseMsg{OpportunityID: "x", Amount: 1},
		},
		"distribute nothing": {
			msg:     &DistributeReturnsMsg{Depositor: addr, TargetID: "pool"},
			wantErr: errors.ErrAmount,
		},
		"close into active": {
			msg:     &CloseOpportunityMsg{OpportunityID: "x", Outcome: OpportunityActive},
			wantErr: errors.ErrInput,
		},
		"empty admin list": {
			msg:     &InitializeAdminMsg{},
			wantErr: errors.ErrInput,
		},
		"empty patch": {
			msg:     &UpdateConfigurationMsg{},
			wantErr: errors.ErrEmpty,
		},
		"ticker patch": {
			msg:     &UpdateConfigurationMsg{Patch: &Config{Ticker: "EURV"}},
			wantErr: errors.ErrInput,
		},
		"partial patch": {
			msg: &UpdateConfigurationMsg{Patch: &Config{MaxDeposit: 10}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestMsgCodec(t *testing.T) {
	msg := &DepositMsg{
		Depositor:      vesttest.NewCondition().Address(),
		TargetID:       "solar",
		Amount:         1234,
		ExpectedReturn: 7,
	}
	raw, err := codec.Marshal(msg)
	assert.Nil(t, err)
	var got DepositMsg
	assert.Nil(t, codec.Unmarshal(raw, &got))
	assert.Equal(t, msg, &got)
}
