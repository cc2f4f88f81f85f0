package archive

// Counter widths of the three minted record numbers.
const (
	FondDigits = 2
	FileDigits = 2
	ItemDigits = 2
)

// FondPrefix is the sequence prefix for fonds of a classification, so the
// first fond under "A" is "A01".
func FondPrefix(classificationCode string) string {
	return classificationCode
}

// FilePrefix is the sequence prefix for files of a series, e.g. "A01-2024-HR-".
func FilePrefix(fondNo, seriesNo string) string {
	return fondNo + SeriesSeparator + seriesNo + SeriesSeparator
}

// ItemPrefix is the sequence prefix for items of a file, e.g. "A01-2024-HR-01-".
func ItemPrefix(fileNo string) string {
	return fileNo + SeriesSeparator
}
