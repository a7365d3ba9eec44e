package remap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testTemplate = "!TRNS\tDATE\tACCNT\tNAME\tCLASS\tAMOUNT\tMEMO\n" +
	"!SPL\tDATE\tACCNT\tNAME\tCLASS\tAMOUNT\tMEMO\n"

func TestParseTemplate(t *testing.T) {
	schema, err := ParseTemplate(testTemplate)
	assert.NoError(t, err)
	assert.Equal(t, []string{"DATE", "ACCNT", "NAME", "CLASS", "AMOUNT", "MEMO"}, schema.Columns)
	assert.Len(t, schema.Header, 2)
	assert.True(t, strings.HasPrefix(schema.Header[0], "!TRNS"))
}

func TestParseTemplate_CRLFAndBlankLines(t *testing.T) {
	schema, err := ParseTemplate("\r\n!TRNS\tDATE\tAMOUNT\r\n\r\n!SPL\tDATE\tAMOUNT\r\n")
	assert.NoError(t, err)
	assert.Equal(t, []string{"DATE", "AMOUNT"}, schema.Columns)
}

func TestParseTemplate_TooShort(t *testing.T) {
	_, err := ParseTemplate("!TRNS\tDATE\n")
	assert.Error(t, err)
}

func storeResolver() *Resolver {
	table := NewTable(
		[]string{"DATE", "Store", "Cash", "Card"},
		[][]Cell{
			{Text("1/6/2024"), Text("Downtown"), Number(50), Number(70)},
			{Text("1/5/2024"), Text("Downtown"), Number(30), Number(40)},
			{Text("1/5/2024"), Text("Uptown"), Number(20), Number(25)},
		},
	)
	return &Resolver{
		Table:   table,
		Targets: []string{"DATE", "ACCNT", "NAME", "CLASS", "AMOUNT", "MEMO"},
		Values: Mapping{
			"DATE":   {"DATE"},
			"CLASS":  {"Store"},
			"AMOUNT": {"Cash", "Card"},
		},
		Keys: Mapping{
			"ACCNT": {"Cash", "Card"},
		},
	}
}

func TestExport_UnmappedSplitColumn(t *testing.T) {
	schema, _ := ParseTemplate(testTemplate)
	_, err := storeResolver().Export(schema, ExportOptions{SplitColumn: "CLASS"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = storeResolver().Export(schema, ExportOptions{SplitColumn: "NAME"})
	assert.ErrorIs(t, err, ErrUnmappedSplitColumn)
}

func TestExport_SplitsByStoreAndSortsByDate(t *testing.T) {
	schema, _ := ParseTemplate(testTemplate)
	files, err := storeResolver().Export(schema, ExportOptions{SplitColumn: "CLASS"})
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	assert.Equal(t, "Downtown.iif", files[0].Name)
	assert.Equal(t, "Uptown.iif", files[1].Name)

	// Within a store file the groups are date-sorted, so 1/5 precedes 1/6.
	downtown := files[0].Content
	assert.Less(t, strings.Index(downtown, "1/5/2024"), strings.Index(downtown, "1/6/2024"))
	assert.NotContains(t, downtown, "Uptown")
}

func TestExport_SerializationGrammar(t *testing.T) {
	schema, _ := ParseTemplate(testTemplate)
	files, err := storeResolver().Export(schema, ExportOptions{SplitColumn: "CLASS"})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(files[0].Content, "\n"), "\n")

	// Two verbatim header lines, then an ENDTRNS before every date boundary
	// and after the last row. Each source row expands to two slots, so one
	// date group is TRNS then SPL.
	assert.Equal(t, schema.Header[0], lines[0])
	assert.Equal(t, schema.Header[1], lines[1])
	markers := make([]string, 0, len(lines)-2)
	for _, line := range lines[2:] {
		markers = append(markers, strings.SplitN(line, "\t", 2)[0])
	}
	assert.Equal(t, []string{
		"ENDTRNS", "TRNS", "SPL",
		"ENDTRNS", "TRNS", "SPL",
		"ENDTRNS",
	}, markers)

	// The key-mapped ACCNT column carries source column names as labels.
	assert.Contains(t, files[0].Content, "\tCash\t")
	assert.Contains(t, files[0].Content, "\tCard\t")
}

func TestExport_Remaps(t *testing.T) {
	schema, _ := ParseTemplate(testTemplate)
	files, err := storeResolver().Export(schema, ExportOptions{
		SplitColumn: "CLASS",
		COAColumn:   "ACCNT",
		COAMap:      map[string]string{"cash": "Undeposited Funds"},
		MemoColumn:  "CLASS",
		MemoMap:     map[string]string{"downtown": "Store #1"},
		MemoPolicy:  MemoKeys,
	})
	assert.NoError(t, err)

	downtown := files[0].Content
	assert.Contains(t, downtown, "Undeposited Funds")
	assert.NotContains(t, downtown, "\tCash\t")
	assert.Contains(t, downtown, "Store #1")

	// The memo entry does not match Uptown rows.
	assert.NotContains(t, files[1].Content, "Store #1")
}

func TestExport_MemoValuesPolicy(t *testing.T) {
	schema, _ := ParseTemplate(testTemplate)
	files, err := storeResolver().Export(schema, ExportOptions{
		SplitColumn: "CLASS",
		MemoColumn:  "CLASS",
		MemoMap:     map[string]string{"downtown": "DATE"},
		MemoPolicy:  MemoValues,
	})
	assert.NoError(t, err)

	// The mapping value names a target column; its row value lands in MEMO.
	lines := strings.Split(files[0].Content, "\n")
	var sawMemoDate bool
	for _, line := range lines {
		cells := strings.Split(line, "\t")
		if len(cells) == 7 && cells[6] == cells[1] && cells[6] != "" {
			sawMemoDate = true
		}
	}
	assert.True(t, sawMemoDate, "expected MEMO to carry the DATE value")
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "undepositedfunds", normalizeKey("Undeposited Funds"))
	assert.Equal(t, "store1", normalizeKey("Store #1!"))
	assert.Equal(t, "", normalizeKey("  --  "))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "A_B_C", sanitizeFileName("A/B:C"))
	assert.Equal(t, "plain", sanitizeFileName("  plain "))
}

func TestPreview(t *testing.T) {
	r := storeResolver()

	records := r.Preview(2)
	assert.Len(t, records, 2)
	// Preview keeps source order, not date order.
	assert.Equal(t, "1/6/2024", records[0]["DATE"].String())

	assert.Len(t, r.Preview(100), 6)
}
