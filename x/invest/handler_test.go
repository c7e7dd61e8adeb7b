package invest

import (
	"math/rand"
	"testing"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/vesttest"
	"github.com/vestnet/vest/vesttest/assert"
	"github.com/vestnet/vest/x/cash"
)

func TestInitializeProgram(t *testing.T) {
	env := newTestEnv(t, 100, 10000)

	conf, err := loadConf(env.db)
	assert.Nil(t, err)
	assert.Equal(t, env.admin.Address(), conf.Owner)
	assert.Equal(t, uint64(100), conf.MinDeposit)
	assert.Equal(t, uint64(10000), conf.MaxDeposit)

	pool := env.pool()
	assert.Equal(t, uint64(0), pool.TotalEscrow)
	assert.Equal(t, env.admin.Address(), pool.ReleaseAuthority)

	again := &InitializeProgramMsg{Admin: env.admin.Address(), MinDeposit: 1, MaxDeposit: 2, Ticker: ticker}
	_, err = env.deliver(vesttest.NewCondition(), again)
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestInitializeProgramValidation(t *testing.T) {
	admin := vesttest.NewCondition()

	cases := map[string]struct {
		signer  vest.Condition
		msg     *InitializeProgramMsg
		wantErr *errors.Error
	}{
		"any payer can initialize": {
			signer: vesttest.NewCondition(),
			msg:    &InitializeProgramMsg{Admin: admin.Address(), MinDeposit: 1, MaxDeposit: 1, Ticker: ticker},
		},
		"payer signature required": {
			signer:  nil,
			msg:     &InitializeProgramMsg{Admin: admin.Address(), MinDeposit: 1, MaxDeposit: 1, Ticker: ticker},
			wantErr: errors.ErrUnauthorized,
		},
		"min above max": {
			signer:  admin,
			msg:     &InitializeProgramMsg{Admin: admin.Address(), MinDeposit: 2, MaxDeposit: 1, Ticker: ticker},
			wantErr: errors.ErrInput,
		},
		"fee above 100%": {
			signer:  admin,
			msg:     &InitializeProgramMsg{Admin: admin.Address(), MaxDeposit: 1, FeeBps: 10001, Ticker: ticker},
			wantErr: errors.ErrInput,
		},
		"invalid ticker": {
			signer:  admin,
			msg:     &InitializeProgramMsg{Admin: admin.Address(), MaxDeposit: 1, Ticker: "usd"},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newBareEnv(t)
			_, err := env.deliver(tc.signer, tc.msg)
			assert.IsErr(t, tc.wantErr, err)
			exists := newBuckets().pool.Has(env.db, PoolAddress()) == nil
			assert.Equal(t, tc.wantErr == nil, exists)
		})
	}
}

func TestInitializeAdmin(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	a, b := vesttest.NewCondition().Address(), vesttest.NewCondition().Address()

	_, err := env.deliver(vesttest.NewCondition(), &InitializeAdminMsg{Admins: []vest.Address{a, b}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = env.deliver(env.admin, &InitializeAdminMsg{Admins: []vest.Address{a, a}})
	assert.IsErr(t, errors.ErrDuplicate, err)

	_, err = env.deliver(env.admin, &InitializeAdminMsg{Admins: []vest.Address{a, b}})
	assert.Nil(t, err)

	_, err = env.deliver(env.admin, &InitializeAdminMsg{Admins: []vest.Address{a}})
	assert.IsErr(t, errors.ErrDuplicate, err)

	var list AdminList
	assert.Nil(t, NewAdminListBucket().One(env.db, AdminListKey(), &list))
	assert.Equal(t, true, list.Contains(a))
	assert.Equal(t, true, list.Contains(b))
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	member := vesttest.NewCondition()
	stranger := vesttest.NewCondition()

	create := func(id string) *CreateOpportunityMsg {
		return &CreateOpportunityMsg{ID: id, Name: "Solar farm", TargetAmount: 100}
	}

	_, err := env.deliver(stranger, create("o1"))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = env.deliver(member, create("o1"))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// The release authority is an admin even without the admin list.
	_, err = env.deliver(env.admin, create("o1"))
	assert.Nil(t, err)
	assert.Equal(t, env.admin.Address(), env.opportunity("o1").Admin)

	_, err = env.deliver(env.admin, &InitializeAdminMsg{Admins: []vest.Address{member.Address()}})
	assert.Nil(t, err)

	_, err = env.deliver(member, create("o2"))
	assert.Nil(t, err)
	assert.Equal(t, member.Address(), env.opportunity("o2").Admin)

	_, err = env.deliver(member, create("o2"))
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestDepositPreconditionsOrder(t *testing.T) {
	cases := map[string]struct {
		target         string
		amount         uint64
		expectedReturn uint32
		wantErr        *errors.Error
	}{
		"pool wide deposit": {
			target: "pool",
			amount: 500,
		},
		"exact minimum": {
			target: "pool",
			amount: 100,
		},
		"exact maximum": {
			target: "pool",
			amount: 10000,
		},
		"exact opportunity minimum": {
			target: "active",
			amount: 200,
		},
		"below configured minimum": {
			target:         "pool",
			amount:         99,
			expectedReturn: 101,
			wantErr:        ErrAmountTooSmall,
		},
		"above maximum": {
			target:         "pool",
			amount:         10001,
			expectedReturn: 101,
			wantErr:        ErrAmountTooLarge,
		},
		"invalid return": {
			target:         "pool",
			amount:         500,
			expectedReturn: 101,
			wantErr:        ErrInvalidReturn,
		},
		"return of 100% is allowed": {
			target:         "pool",
			amount:         500,
			expectedReturn: 100,
		},
		"opportunity minimum replaces configured minimum": {
			target: "funded",
			amount: 150,
			// Opportunity is checked after the bounds.
			wantErr: ErrOpportunityNotActive,
		},
		"below opportunity minimum": {
			target:         "active",
			amount:         150,
			expectedReturn: 101,
			wantErr:        ErrAmountTooSmall,
		},
		"opportunity deposit": {
			target: "active",
			amount: 250,
		},
		"opportunity not active reported after bounds": {
			target:         "funded",
			amount:         500,
			expectedReturn: 101,
			wantErr:        ErrInvalidReturn,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t, 100, 10000)
			_, err := env.deliver(env.admin, &CreateOpportunityMsg{ID: "active", Name: "A", TargetAmount: 5000, MinDeposit: 200})
			assert.Nil(t, err)
			_, err = env.deliver(env.admin, &CreateOpportunityMsg{ID: "funded", Name: "F", TargetAmount: 100, MinDeposit: 100})
			assert.Nil(t, err)
			early := env.fund(100)
			_, err = env.deliver(early, &DepositMsg{Depositor: early.Address(), TargetID: "funded", Amount: 100})
			assert.Nil(t, err)
			assert.Equal(t, OpportunityFunded, env.opportunity("funded").Status)

			depositor := env.fund(20000)
			poolBefore := env.pool().TotalEscrow
			msg := &DepositMsg{
				Depositor:      depositor.Address(),
				TargetID:       tc.target,
				Amount:         tc.amount,
				ExpectedReturn: tc.expectedReturn,
			}

			_, err = env.check(depositor, msg)
			assert.IsErr(t, tc.wantErr, err)
			_, err = env.deliver(depositor, msg)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantErr != nil {
				assert.Equal(t, uint64(20000), env.balance(depositor.Address()))
				assert.Equal(t, poolBefore, env.pool().TotalEscrow)
				return
			}
			assert.Equal(t, 20000-tc.amount, env.balance(depositor.Address()))
			assert.Equal(t, poolBefore+tc.amount, env.pool().TotalEscrow)
			pos := env.position(depositor.Address(), tc.target)
			assert.Equal(t, tc.amount, pos.Principal)
			assert.Equal(t, tc.amount, pos.CurrentValue)
			assert.Equal(t, vest.AsUnixTime(blockTime), pos.DepositedAt)
		})
	}
}

func TestDepositRequiresDepositorSignature(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	depositor := env.fund(100)
	msg := &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 10}

	_, err := env.deliver(vesttest.NewCondition(), msg)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, uint64(100), env.balance(depositor.Address()))
}

func TestDepositTransferErrorsPropagate(t *testing.T) {
	env := newTestEnv(t, 1, 1000)

	poor := env.fund(5)
	_, err := env.deliver(poor, &DepositMsg{Depositor: poor.Address(), TargetID: "pool", Amount: 10})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	frozen := env.fund(100)
	assert.Nil(t, env.ctrl.SetFrozen(env.db, frozen.Address(), ticker, true))
	_, err = env.deliver(frozen, &DepositMsg{Depositor: frozen.Address(), TargetID: "pool", Amount: 10})
	assert.IsErr(t, cash.ErrFrozen, err)

	assert.Equal(t, uint64(0), env.pool().TotalEscrow)
	assert.Equal(t, uint64(0), env.pool().OpenPositions)
}

func TestDuplicatePositionIsRolledBack(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	depositor := env.fund(1000)
	msg := &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 300}

	_, err := env.deliver(depositor, msg)
	assert.Nil(t, err)
	_, err = env.deliver(depositor, msg)
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Handler level check is bypassed, the store must still reject it.
	h := env.handlers[pathDepositMsg].(DepositHandler)
	cache := env.db.CacheWrap()
	err = h.b.positions.Create(cache, PositionKey(depositor.Address(), "pool"), env.position(depositor.Address(), "pool"))
	cache.Discard()
	assert.IsErr(t, errors.ErrDuplicate, err)

	assert.Equal(t, uint64(700), env.balance(depositor.Address()))
	assert.Equal(t, uint64(300), env.pool().TotalEscrow)
	assert.Equal(t, uint64(1), env.pool().OpenPositions)

	// Another target is a separate position.
	_, err = env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "other", Amount: 300})
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), env.pool().OpenPositions)
}

func TestWorkedExample(t *testing.T) {
	env := newTestEnv(t, 100, 10000)
	depositor := env.fund(1000)

	_, err := env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 500})
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), env.pool().TotalEscrow)
	pos := env.position(depositor.Address(), "pool")
	assert.Equal(t, uint64(500), pos.Principal)
	assert.Equal(t, uint64(500), pos.CurrentValue)

	_, err = env.deliver(env.admin, &DistributeReturnsMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 50})
	assert.Nil(t, err)
	pos = env.position(depositor.Address(), "pool")
	assert.Equal(t, uint64(500), pos.Principal)
	assert.Equal(t, uint64(550), pos.CurrentValue)
	assert.Equal(t, uint64(450), env.pool().TotalEscrow)
	assert.Equal(t, uint64(450), env.balance(PoolAddress()))
	assert.Equal(t, uint64(550), env.balance(depositor.Address()))
}

func TestReleaseFunds(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	depositor := env.fund(1000)
	_, err := env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 800})
	assert.Nil(t, err)
	dest := vesttest.NewCondition().Address()

	cases := map[string]struct {
		signer  vest.Condition
		amount  uint64
		wantErr *errors.Error
	}{
		"depositor is not the authority": {
			signer:  depositor,
			amount:  10,
			wantErr: errors.ErrUnauthorized,
		},
		"no signature": {
			signer:  nil,
			amount:  10,
			wantErr: errors.ErrUnauthorized,
		},
		"more than the pool holds": {
			signer:  env.admin,
			amount:  801,
			wantErr: ErrInsufficientFunds,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := &ReleaseFundsMsg{TargetID: "pool", Destination: dest, Amount: tc.amount}
			_, err := env.deliver(tc.signer, msg)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, uint64(800), env.pool().TotalEscrow)
			assert.Equal(t, uint64(800), env.balance(PoolAddress()))
			assert.Equal(t, uint64(0), env.balance(dest))
		})
	}

	_, err = env.deliver(env.admin, &ReleaseFundsMsg{TargetID: "pool", Destination: dest, Amount: 300})
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), env.pool().TotalEscrow)
	assert.Equal(t, uint64(500), env.balance(PoolAddress()))
	assert.Equal(t, uint64(300), env.balance(dest))
}

func TestPoolWalletRejectsSignerAuthority(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	depositor := env.fund(100)
	_, err := env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 100})
	assert.Nil(t, err)

	// Nobody can sign for the pool wallet, not even the release authority.
	send := &cash.SendMsg{Src: PoolAddress(), Dest: env.admin.Address(), Amount: coin.NewCoin(10, ticker)}
	h := cash.NewSendHandler(env.auth, env.ctrl)
	_, err = h.Deliver(env.ctx(env.admin), env.db, &vesttest.Tx{Msg: send})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	assert.Equal(t, true, escrowAuthority{}.CanSpend(PoolAddress()))
	assert.Equal(t, false, escrowAuthority{}.CanSpend(depositor.Address()))
}

func TestDistributeReturns(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	depositor := env.fund(1000)
	_, err := env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 100})
	assert.Nil(t, err)

	cases := map[string]struct {
		signer    vest.Condition
		depositor vest.Address
		amount    uint64
		wantErr   *errors.Error
	}{
		"not an admin": {
			signer:    depositor,
			depositor: depositor.Address(),
			amount:    10,
			wantErr:   errors.ErrUnauthorized,
		},
		"unknown position": {
			signer:    env.admin,
			depositor: vesttest.NewCondition().Address(),
			amount:    10,
			wantErr:   errors.ErrNotFound,
		},
		"more than the pool holds": {
			signer:    env.admin,
			depositor: depositor.Address(),
			amount:    101,
			wantErr:   ErrInsufficientFunds,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := &DistributeReturnsMsg{Depositor: tc.depositor, TargetID: "pool", Amount: tc.amount}
			_, err := env.deliver(tc.signer, msg)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, uint64(100), env.position(depositor.Address(), "pool").CurrentValue)
			assert.Equal(t, uint64(100), env.pool().TotalEscrow)
		})
	}
}

func TestOpportunityLifecycle(t *testing.T) {
	env := newTestEnv(t, 10, 1000)
	_, err := env.deliver(env.admin, &CreateOpportunityMsg{
		ID:               "wind",
		Name:             "Wind park",
		TargetAmount:     1000,
		MinDeposit:       100,
		ExpectedYieldBps: 800,
		DurationDays:     365,
	})
	assert.Nil(t, err)
	opp := env.opportunity("wind")
	assert.Equal(t, OpportunityActive, opp.Status)
	assert.Equal(t, vest.AsUnixTime(blockTime), opp.CreatedAt)

	withdraw := &WithdrawForUseMsg{OpportunityID: "wind", Amount: 100}
	_, err = env.deliver(env.admin, withdraw)
	assert.IsErr(t, ErrOpportunityNotFunded, err)
	_, err = env.deliver(env.admin, &CloseOpportunityMsg{OpportunityID: "wind", Outcome: OpportunityCompleted})
	assert.IsErr(t, ErrOpportunityNotFunded, err)

	var depositors []vest.Condition
	for i := 0; i < 3; i++ {
		d := env.fund(1000)
		depositors = append(depositors, d)
		_, err := env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "wind", Amount: 400, ExpectedReturn: 8})
		assert.Nil(t, err)
	}
	opp = env.opportunity("wind")
	assert.Equal(t, OpportunityFunded, opp.Status)
	assert.Equal(t, uint64(1200), opp.TotalRaised)

	late := env.fund(1000)
	_, err = env.deliver(late, &DepositMsg{Depositor: late.Address(), TargetID: "wind", Amount: 400})
	assert.IsErr(t, ErrOpportunityNotActive, err)

	_, err = env.deliver(depositors[0], withdraw)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = env.deliver(env.admin, &WithdrawForUseMsg{OpportunityID: "wind", Amount: 1201})
	assert.IsErr(t, ErrInsufficientFunds, err)

	_, err = env.deliver(env.admin, &WithdrawForUseMsg{OpportunityID: "wind", Amount: 1000})
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), env.balance(env.admin.Address()))
	assert.Equal(t, uint64(1000), env.opportunity("wind").TotalWithdrawn)
	assert.Equal(t, uint64(200), env.pool().TotalEscrow)

	_, err = env.deliver(env.admin, &WithdrawForUseMsg{OpportunityID: "wind", Amount: 201})
	assert.IsErr(t, ErrInsufficientFunds, err)

	dest := vesttest.NewCondition().Address()
	_, err = env.deliver(env.admin, &WithdrawForUseMsg{OpportunityID: "wind", Destination: dest, Amount: 200})
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), env.balance(dest))

	assert.Equal(t, uint64(3), env.pool().OpenPositions)
	_, err = env.deliver(env.admin, &CloseOpportunityMsg{OpportunityID: "wind", Outcome: OpportunityCompleted})
	assert.Nil(t, err)
	assert.Equal(t, OpportunityCompleted, env.opportunity("wind").Status)
	assert.Equal(t, uint64(0), env.pool().OpenPositions)
	for _, d := range depositors {
		assert.Equal(t, PositionCompleted, env.position(d.Address(), "wind").Status)
	}

	_, err = env.deliver(env.admin, &CloseOpportunityMsg{OpportunityID: "wind", Outcome: OpportunityCancelled})
	assert.IsErr(t, errors.ErrState, err)
	_, err = env.deliver(env.admin, withdraw)
	assert.IsErr(t, ErrOpportunityNotFunded, err)
}

func TestCancelOpportunity(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	_, err := env.deliver(env.admin, &CreateOpportunityMsg{ID: "mine", Name: "Mine", TargetAmount: 1000})
	assert.Nil(t, err)

	d := env.fund(100)
	_, err = env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "mine", Amount: 100})
	assert.Nil(t, err)
	other := env.fund(100)
	_, err = env.deliver(other, &DepositMsg{Depositor: other.Address(), TargetID: "pool", Amount: 100})
	assert.Nil(t, err)

	_, err = env.deliver(env.admin, &CloseOpportunityMsg{OpportunityID: "mine", Outcome: OpportunityCancelled})
	assert.Nil(t, err)
	assert.Equal(t, OpportunityCancelled, env.opportunity("mine").Status)
	assert.Equal(t, PositionCancelled, env.position(d.Address(), "mine").Status)
	assert.Equal(t, PositionActive, env.position(other.Address(), "pool").Status)
	assert.Equal(t, uint64(1), env.pool().OpenPositions)

	_, err = env.deliver(env.admin, &DistributeReturnsMsg{Depositor: d.Address(), TargetID: "mine", Amount: 10})
	assert.IsErr(t, errors.ErrState, err)

	_, err = env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "mine", Amount: 1})
	assert.IsErr(t, ErrOpportunityNotActive, err)
}

func TestOpportunityIDUsedByPoolDeposit(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	d := env.fund(100)
	_, err := env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "taken", Amount: 100})
	assert.Nil(t, err)

	_, err = env.deliver(env.admin, &CreateOpportunityMsg{ID: "taken", Name: "Taken", TargetAmount: 10})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestRandomizedDepositsMatchPool(t *testing.T) {
	env := newTestEnv(t, 1, 10000)
	rnd := rand.New(rand.NewSource(42))

	var principals uint64
	for i := 0; i < 1000; i++ {
		amount := uint64(rnd.Intn(12000)) + 1
		d := env.fund(20000)
		_, err := env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "pool", Amount: amount})
		if amount > 10000 {
			assert.IsErr(t, ErrAmountTooLarge, err)
			continue
		}
		assert.Nil(t, err)
		principals += amount
	}

	var positions []*Position
	_, err := NewPositionBucket().ByIndex(env.db, "target", []byte("pool"), &positions)
	assert.Nil(t, err)
	var sum uint64
	for _, p := range positions {
		sum += p.Principal
	}
	pool := env.pool()
	assert.Equal(t, principals, sum)
	assert.Equal(t, principals, pool.TotalEscrow)
	assert.Equal(t, uint64(len(positions)), pool.OpenPositions)
	assert.Equal(t, principals, env.balance(PoolAddress()))
}

func TestUpdateConfiguration(t *testing.T) {
	env := newTestEnv(t, 100, 10000)
	stranger := vesttest.NewCondition()

	patch := &UpdateConfigurationMsg{Patch: &Config{MaxDeposit: 20000}}
	_, err := env.deliver(stranger, patch)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = env.deliver(env.admin, patch)
	assert.Nil(t, err)
	conf, err := loadConf(env.db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), conf.MinDeposit)
	assert.Equal(t, uint64(20000), conf.MaxDeposit)

	// The result must still be a valid configuration.
	_, err = env.deliver(env.admin, &UpdateConfigurationMsg{Patch: &Config{MinDeposit: 30000}})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestTickerCannotBeUpdated(t *testing.T) {
	env := newTestEnv(t, 100, 10000)
	depositor := env.fund(1000)
	_, err := env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "pool", Amount: 500})
	assert.Nil(t, err)

	_, err = env.deliver(env.admin, &UpdateConfigurationMsg{Patch: &Config{Ticker: "EURV"}})
	assert.IsErr(t, errors.ErrInput, err)
	conf, err := loadConf(env.db)
	assert.Nil(t, err)
	assert.Equal(t, ticker, conf.Ticker)

	// Escrowed funds can still leave the pool.
	dst := vesttest.NewCondition().Address()
	_, err = env.deliver(env.admin, &ReleaseFundsMsg{TargetID: "pool", Destination: dst, Amount: 100})
	assert.Nil(t, err)
	assert.Equal(t, uint64(400), env.pool().TotalEscrow)
	assert.Equal(t, uint64(400), env.balance(PoolAddress()))
	assert.Equal(t, uint64(100), env.balance(dst))
}

func TestCreateOpportunityMinimumWithinBounds(t *testing.T) {
	env := newTestEnv(t, 100, 10000)

	_, err := env.deliver(env.admin, &CreateOpportunityMsg{ID: "big", Name: "B", TargetAmount: 50000, MinDeposit: 10001})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = newBuckets().loadOpportunity(env.db, "big")
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = env.deliver(env.admin, &CreateOpportunityMsg{ID: "big", Name: "B", TargetAmount: 50000, MinDeposit: 10000})
	assert.Nil(t, err)
	depositor := env.fund(10000)
	_, err = env.deliver(depositor, &DepositMsg{Depositor: depositor.Address(), TargetID: "big", Amount: 10000})
	assert.Nil(t, err)
	assert.Equal(t, uint64(10000), env.opportunity("big").TotalRaised)
}

func TestQueries(t *testing.T) {
	env := newTestEnv(t, 1, 1000)
	_, err := env.deliver(env.admin, &CreateOpportunityMsg{ID: "q", Name: "Query", TargetAmount: 1000})
	assert.Nil(t, err)
	d := env.fund(100)
	_, err = env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "q", Amount: 50})
	assert.Nil(t, err)
	_, err = env.deliver(d, &DepositMsg{Depositor: d.Address(), TargetID: "pool", Amount: 50})
	assert.Nil(t, err)

	qr := vest.NewQueryRouter()
	RegisterQuery(qr)

	cases := map[string]struct {
		path string
		data []byte
		want int
	}{
		"config":               {path: "/invest/config", want: 1},
		"pool":                 {path: "/invest/pool", data: PoolAddress(), want: 1},
		"opportunity":          {path: "/opportunities", data: OpportunityKey("q"), want: 1},
		"opportunity by admin": {path: "/opportunities/admin", data: env.admin.Address(), want: 1},
		"position":             {path: "/positions", data: PositionKey(d.Address(), "q"), want: 1},
		"by depositor":         {path: "/positions/depositor", data: d.Address(), want: 2},
		"by target":            {path: "/positions/target", data: []byte("q"), want: 1},
		"no admins":            {path: "/admins", data: AdminListKey(), want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := qr.Handler(tc.path)
			if h == nil {
				t.Fatalf("no handler for %q", tc.path)
			}
			res, err := h.Query(env.db, vest.KeyQueryMod, tc.data)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, len(res))
		})
	}
}
