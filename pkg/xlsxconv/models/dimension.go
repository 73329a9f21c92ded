package models

// Dimension represents the used range a worksheet declares for itself.
type Dimension struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Width returns the number of columns from column A through C2, which is how
// wide every row of the sheet is read.
func (d Dimension) Width() int {
	return d.C2
}
