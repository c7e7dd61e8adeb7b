package cash

import (
	"testing"

	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/vesttest"
	"github.com/vestnet/vest/vesttest/assert"
)

func TestSendMsgValidate(t *testing.T) {
	alice := vesttest.NewCondition().Address()
	bob := vesttest.NewCondition().Address()

	cases := map[string]struct {
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &SendMsg{Src: alice, Dest: bob, Amount: coin.NewCoin(1, ticker)},
		},
		"zero amount": {
			msg:     &SendMsg{Src: alice, Dest: bob, Amount: coin.NewCoin(0, ticker)},
			wantErr: errors.ErrAmount,
		},
		"invalid ticker": {
			msg:     &SendMsg{Src: alice, Dest: bob, Amount: coin.NewCoin(1, "usd")},
			wantErr: errors.ErrCurrency,
		},
		"missing destination": {
			msg:     &SendMsg{Src: alice, Amount: coin.NewCoin(1, ticker)},
			wantErr: errors.ErrInput,
		},
		"memo too long": {
			msg:     &SendMsg{Src: alice, Dest: bob, Amount: coin.NewCoin(1, ticker), Memo: string(make([]byte, maxMemoSize+1))},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestFreezeMsgValidate(t *testing.T) {
	alice := vesttest.NewCondition().Address()
	assert.Nil(t, (&FreezeMsg{Owner: alice, Ticker: ticker}).Validate())
	assert.FieldError(t, (&FreezeMsg{Ticker: ticker}).Validate(), "Owner", errors.ErrInput)
	assert.FieldError(t, (&FreezeMsg{Owner: alice, Ticker: "x"}).Validate(), "Ticker", errors.ErrCurrency)
}

func TestUpdateConfigurationMsgValidate(t *testing.T) {
	assert.IsErr(t, errors.ErrEmpty, (&UpdateConfigurationMsg{}).Validate())
	assert.Nil(t, (&UpdateConfigurationMsg{Patch: &Configuration{Tickers: []string{"EUR"}}}).Validate())
	assert.IsErr(t, errors.ErrCurrency, (&UpdateConfigurationMsg{Patch: &Configuration{Tickers: []string{"eur"}}}).Validate())
}
