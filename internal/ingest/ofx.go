package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML opening tags left without a closing bracket at end of line.
	unclosedTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Card-processor prefixes stripped from statement descriptions.
var descriptionPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericDescriptions = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// OFXIngestor reads bank and credit card statements in OFX or QFX format.
type OFXIngestor struct{}

// NewOFXIngestor creates an OFX ingestor.
func NewOFXIngestor() *OFXIngestor {
	return &OFXIngestor{}
}

// Drafts parses a statement and returns one draft per posted transaction,
// bank statements first. Signed statement amounts become a type plus magnitude.
func (o *OFXIngestor) Drafts(r io.Reader) ([]model.Draft, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(cleanOFX(string(content))))
	if err != nil {
		return nil, &common.ParseError{Field: "OFX document", Value: "", Err: err}
	}

	var lists []*ofxgo.TransactionList
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			lists = append(lists, stmt.BankTranList)
		}
	}
	bankStatements := len(lists)
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			lists = append(lists, stmt.BankTranList)
		}
	}

	var drafts []model.Draft
	for _, list := range lists {
		if list == nil {
			continue
		}
		for _, txn := range list.Transactions {
			draft, err := draftFromOFX(txn)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, draft)
		}
	}

	slog.Info("parsed OFX file",
		"transactions", len(drafts),
		"bank_statements", bankStatements,
		"cc_statements", len(lists)-bankStatements)

	return drafts, nil
}

func draftFromOFX(txn ofxgo.Transaction) (model.Draft, error) {
	raw := txn.TrnAmt.FloatString(2)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Draft{}, &common.ParseError{Field: "TRNAMT", Value: raw, Err: err}
	}

	return model.Draft{
		Time:        txn.DtPosted.Time,
		Description: statementDescription(txn),
		Amount:      amount.Abs(),
		Type:        model.TypeForSignedAmount(amount),
	}, nil
}

// cleanOFX repairs formatting mistakes common in bank exports.
func cleanOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagPattern.ReplaceAllString(content, "$1>")
}

// statementDescription prefers the payee, then a memo when the name is generic,
// and strips processor prefixes and leading MM/DD stamps.
func statementDescription(txn ofxgo.Transaction) string {
	if txn.Payee != nil && txn.Payee.Name != "" {
		return strings.TrimSpace(string(txn.Payee.Name))
	}

	name := strings.TrimSpace(string(txn.Name))
	if txn.Memo != "" && genericDescriptions[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(txn.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}
