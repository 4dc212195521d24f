package importer

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var markupSignatures = [][]byte{
	[]byte("OFXHEADER"),
	[]byte("<OFX>"),
	[]byte("<STMTTRN>"),
	[]byte("<BANKMSGSRSV1>"),
	[]byte("<CREDITCARDMSGSRSV1>"),
}

// Detect returns FormatMarkup when content carries any OFX signature token,
// otherwise FormatDelimited.
func Detect(content []byte) string {
	upper := bytes.ToUpper(content)
	for _, sig := range markupSignatures {
		if bytes.Contains(upper, sig) {
			return FormatMarkup
		}
	}
	return FormatDelimited
}

// labelFromFileName turns "chase_checking-2024.csv" into "Chase Checking 2024".
func labelFromFileName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" || base == "." {
		return "Imported"
	}
	// Casers are stateful and not safe for concurrent use.
	return cases.Title(language.English).String(strings.ToLower(base))
}
