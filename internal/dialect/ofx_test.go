package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/model"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115
<TRNAMT>-50.00
<NAME>Grocery Store
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240116093000
<TRNAMT>100.00
<MEMO>Salary deposit
</STMTTRN>
</BANKTRANLIST>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestOFXParse(t *testing.T) {
	p := &OFXParser{}
	rows, rowErrs, err := p.Parse(strings.NewReader(sampleOFX))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	assert.Equal(t, "20240115", rows[0].Date)
	assert.Equal(t, "-50.00", rows[0].Amount)
	assert.Equal(t, "Grocery Store", rows[0].Description)
	assert.Equal(t, "DEBIT", rows[0].Kind)

	assert.Equal(t, "20240116093000", rows[1].Date)
	assert.Equal(t, "Salary deposit", rows[1].Description)
	assert.Equal(t, "CREDIT", rows[1].Kind)
}

func TestOFXMissingCloseTags(t *testing.T) {
	// Real QFX tag soup frequently omits </STMTTRN>.
	input := "<OFX><STMTTRN><DTPOSTED>20240101<TRNAMT>-1.00<NAME>A" +
		"<STMTTRN><DTPOSTED>20240102<TRNAMT>-2.00<NAME>B"
	p := &OFXParser{}
	rows, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[1].Description)
}

func TestOFXBrokenBlockIsOneRowError(t *testing.T) {
	input := strings.Replace(sampleOFX, "<TRNAMT>-50.00\n", "", 1)
	p := &OFXParser{}
	rows, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "TRNAMT", rowErrs[0].Field)
}

func TestOFXEmptyDocument(t *testing.T) {
	p := &OFXParser{}
	_, _, err := p.Parse(strings.NewReader("<OFX></OFX>"))
	assert.ErrorIs(t, err, model.ErrNoValidRows)

	_, _, err = p.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrNoValidRows)
}
