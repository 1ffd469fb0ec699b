package models

import (
	"sort"
	"strings"
)

// Kind classifies an account for the importing framework.
type Kind string

const (
	KindView       Kind = "view"
	KindOther      Kind = "other"
	KindPayable    Kind = "payable"
	KindReceivable Kind = "receivable"
	KindRevenue    Kind = "revenue"
	KindStock      Kind = "stock"
	KindExpense    Kind = "expense"
)

// kindLabels maps the spreadsheet class labels to kinds.
var kindLabels = map[string]Kind{
	"vista":       KindView,
	"otro":        KindOther,
	"a pagar":     KindPayable,
	"a cobrar":    KindReceivable,
	"ingresos":    KindRevenue,
	"existencias": KindStock,
	"gastos":      KindExpense,
}

// KindForLabel looks up a class label. Labels are compared after trimming
// and lowercasing.
func KindForLabel(label string) (Kind, bool) {
	k, ok := kindLabels[strings.ToLower(strings.TrimSpace(label))]
	return k, ok
}

// KindLabels returns the accepted class labels, sorted.
func KindLabels() []string {
	labels := make([]string, 0, len(kindLabels))
	for l := range kindLabels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// IsView reports whether k is the aggregating kind.
func (k Kind) IsView() bool {
	return k == KindView
}

func (k Kind) String() string {
	return string(k)
}
