package ofx_test

import (
	"context"
	"testing"

	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/ofx"
	"github.com/SscSPs/statement_import/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardPaymentDoc = `<OFX>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111
</CCACCTFROM>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240215
<TRNAMT>250.00
<FITID>P1
<NAME>CARD 4455 PAYMENT RECEIVED
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>0.00
<DTASOF>20240229
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestExtract_ClassifiesBeforeShortening(t *testing.T) {
	for _, tt := range []struct {
		name      string
		shortener *services.RulePayeeShortener
		wantName  string
	}{
		{name: "without shortener", wantName: "CARD 4455 PAYMENT RECEIVED"},
		{name: "with rule shortener", shortener: services.NewRulePayeeShortener(), wantName: "CARD"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var ex *ofx.Extractor
			if tt.shortener != nil {
				ex = ofx.NewExtractor(nil, tt.shortener, "USD")
			} else {
				ex = ofx.NewExtractor(nil, nil, "USD")
			}

			statements, err := ex.Parse(context.Background(), cardPaymentDoc, ofx.StaticDefaults{})

			require.NoError(t, err)
			require.Len(t, statements, 1)
			require.Len(t, statements[0].Transactions, 1)
			tx := statements[0].Transactions[0]
			assert.Equal(t, tt.wantName, tx.Name)
			assert.Equal(t, domain.Credit, tx.TransactionDC)
			assert.Equal(t, domain.CounterpartyBank, tx.Counterparty)
		})
	}
}
