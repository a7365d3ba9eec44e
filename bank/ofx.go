package bank

import (
	"strings"
	"time"
)

// OFX SGML serialization. The header keys and the bank identity block are
// fixed placeholders the downstream importer accepts for any institution.

const (
	ofxOrg    = "B1"
	ofxFID    = "10898"
	ofxBankID = "121000248"

	// Transactions carry no time of day; the grammar wants one anyway.
	ofxDefaultTime = "120000"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE
`

func ofxDate(t time.Time) string {
	return t.Format("20060102") + ofxDefaultTime
}

// escape makes text safe for the SGML body. Applied to NAME and MEMO only.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// RenderOFX serializes one account's transactions into the interchange
// grammar. Start and end dates come from the first and last transaction in
// upload order; the group is deliberately not re-sorted.
func RenderOFX(account string, txns []Transaction) string {
	var start, end time.Time
	if len(txns) > 0 {
		start = txns[0].Date
		end = txns[len(txns)-1].Date
	}

	var b strings.Builder
	b.WriteString(ofxHeader)
	b.WriteString("\n<OFX>\n")
	b.WriteString("<SIGNONMSGSRSV1>\n<SONRS>\n")
	b.WriteString("<STATUS>\n<CODE>0\n<SEVERITY>INFO\n</STATUS>\n")
	b.WriteString("<DTSERVER>" + ofxDate(end) + "\n")
	b.WriteString("<LANGUAGE>ENG\n")
	b.WriteString("<FI>\n<ORG>" + ofxOrg + "\n<FID>" + ofxFID + "\n</FI>\n")
	b.WriteString("</SONRS>\n</SIGNONMSGSRSV1>\n")
	b.WriteString("<BANKMSGSRSV1>\n<STMTTRNRS>\n")
	b.WriteString("<TRNUID>1\n")
	b.WriteString("<STATUS>\n<CODE>0\n<SEVERITY>INFO\n</STATUS>\n")
	b.WriteString("<STMTRS>\n")
	b.WriteString("<CURDEF>USD\n")
	b.WriteString("<BANKACCTFROM>\n")
	b.WriteString("<BANKID>" + ofxBankID + "\n")
	b.WriteString("<ACCTID>" + account + "\n")
	b.WriteString("<ACCTTYPE>CHECKING\n")
	b.WriteString("</BANKACCTFROM>\n")
	b.WriteString("<BANKTRANLIST>\n")
	b.WriteString("<DTSTART>" + ofxDate(start) + "\n")
	b.WriteString("<DTEND>" + ofxDate(end) + "\n")

	for _, tx := range txns {
		b.WriteString("<STMTTRN>\n")
		b.WriteString("<TRNTYPE>" + tx.Type + "\n")
		b.WriteString("<DTPOSTED>" + ofxDate(tx.Date) + "\n")
		b.WriteString("<TRNAMT>" + tx.Amount.StringFixed(2) + "\n")
		b.WriteString("<FITID>" + tx.ID + "\n")
		if tx.CheckNum != "" {
			b.WriteString("<CHECKNUM>" + tx.CheckNum + "\n")
		}
		b.WriteString("<NAME>" + escape(tx.Name) + "\n")
		b.WriteString("<MEMO>" + escape(tx.Memo) + "\n")
		b.WriteString("</STMTTRN>\n")
	}

	b.WriteString("</BANKTRANLIST>\n")
	b.WriteString("<LEDGERBAL>\n<BALAMT>0.00\n<DTASOF>" + ofxDate(end) + "\n</LEDGERBAL>\n")
	b.WriteString("</STMTRS>\n</STMTTRNRS>\n</BANKMSGSRSV1>\n</OFX>\n")

	return b.String()
}

// FileName derives the output file name for an account group from the
// company-name mapping, falling back to a plain "Account" label.
func FileName(account string, companies map[string]string) string {
	company, ok := companies[account]
	if !ok || company == "" {
		company = "Account"
	}
	return company + "_" + account + ".qbo"
}
