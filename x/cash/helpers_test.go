package cash

import (
	"testing"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/gconf"
)

const ticker = "USDV"

func initConf(t testing.TB, db vest.KVStore, issuer vest.Address) {
	t.Helper()
	conf := &Configuration{Owner: issuer, Tickers: []string{ticker, "EUR"}}
	if err := gconf.Save(db, confPkg, conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
}
