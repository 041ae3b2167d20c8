// Package dispatch builds the research URLs opened for a stock code.
package dispatch

import (
	"strings"

	"github.com/samber/lo"
	"github.com/stockhop/cli/internal/exchange"
	"github.com/stockhop/cli/pkg/stockcode"
)

// Placeholder is replaced by the stock code in every Template.
const Placeholder = "{code}"

// Template is a URL containing a single Placeholder.
type Template string

// Expand substitutes code for the placeholder.
func (t Template) Expand(code stockcode.Code) string {
	return strings.Replace(string(t), Placeholder, string(code), 1)
}

// Sites are opened for every code, in this order.
var Sites = []Template{
	"https://ifa.ai/tw-stock/{code}",
	"https://www.cnyes.com/twstock/{code}",
	"https://goodinfo.tw/tw/StockDividendSchedule.asp?STOCK_ID={code}",
	"https://statementdog.com/analysis/{code}/stock-health-check",
	"https://histock.tw/stock/{code}/每股淨值",
	"https://www.findbillion.com/twstock/{code}/financial_statement",
	"https://www.cmoney.tw/forum/stock/{code}?s=technical-analysis",
	"https://www.growin.tv/zh/my/analysis/{code}#analysis",
	"https://www.fugle.tw/ai/{code}",
}

// TradingViewTemplates holds the per-exchange technicals page.
var TradingViewTemplates = map[exchange.Exchange]Template{
	exchange.Primary:   "https://tw.tradingview.com/symbols/TWSE-{code}/technicals/",
	exchange.Secondary: "https://tw.tradingview.com/symbols/TPEX-{code}/technicals/",
}

// Classifier is the subset of exchange.Classifier used here.
type Classifier interface {
	Classify(code stockcode.Code) exchange.Exchange
}

// TradingViewURL returns the technicals URL for the exchange code is listed on.
func TradingViewURL(code stockcode.Code, c Classifier) string {
	return TradingViewTemplates[c.Classify(code)].Expand(code)
}

// BuildURLs returns one URL per entry in Sites followed by the
// exchange-specific TradingView URL. It never opens anything.
func BuildURLs(code stockcode.Code, c Classifier) []string {
	urls := lo.Map(Sites, func(t Template, _ int) string {
		return t.Expand(code)
	})
	return append(urls, TradingViewURL(code, c))
}
