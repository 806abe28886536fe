package market

// Session identifies the exchange session an instrument trades in.
type Session string

const (
	SessionUK Session = "UK"
	SessionUS Session = "US"
)

// Instrument is immutable reference data for one tradable equity.
type Instrument struct {
	Symbol  string
	Session Session
	Sector  string
}

// Instruments is the fixed trading universe keyed by symbol.
var Instruments = map[string]Instrument{
	// US session
	"AAPL":  {Symbol: "AAPL", Session: SessionUS, Sector: "Technology"},
	"TSLA":  {Symbol: "TSLA", Session: SessionUS, Sector: "Automotive"},
	"MSFT":  {Symbol: "MSFT", Session: SessionUS, Sector: "Technology"},
	"GOOGL": {Symbol: "GOOGL", Session: SessionUS, Sector: "Technology"},
	"AMZN":  {Symbol: "AMZN", Session: SessionUS, Sector: "Consumer"},
	"META":  {Symbol: "META", Session: SessionUS, Sector: "Technology"},
	"NVDA":  {Symbol: "NVDA", Session: SessionUS, Sector: "Technology"},
	"NFLX":  {Symbol: "NFLX", Session: SessionUS, Sector: "Media"},

	// UK session
	"LLOY.L": {Symbol: "LLOY.L", Session: SessionUK, Sector: "Banking"},
	"VOD.L":  {Symbol: "VOD.L", Session: SessionUK, Sector: "Telecom"},
	"BARC.L": {Symbol: "BARC.L", Session: SessionUK, Sector: "Banking"},
	"TSCO.L": {Symbol: "TSCO.L", Session: SessionUK, Sector: "Consumer"},
	"BP.L":   {Symbol: "BP.L", Session: SessionUK, Sector: "Energy"},
	"AZN.L":  {Symbol: "AZN.L", Session: SessionUK, Sector: "Pharma"},
	"ULVR.L": {Symbol: "ULVR.L", Session: SessionUK, Sector: "Consumer"},
	"SHEL.L": {Symbol: "SHEL.L", Session: SessionUK, Sector: "Energy"},
}

// BySession returns the symbols belonging to the given session, in no
// particular order.
func BySession(s Session) []string {
	var out []string
	for sym, inst := range Instruments {
		if inst.Session == s {
			out = append(out, sym)
		}
	}
	return out
}
