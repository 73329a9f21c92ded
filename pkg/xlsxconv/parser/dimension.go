package parser

import (
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
	"github.com/xuri/excelize/v2"
)

// parseDimension parses the ref of a <dimension> element, e.g. A1:D10 or A1.
func parseDimension(ref string) (models.Dimension, bool) {
	// Remove $ signs
	ref = strings.ReplaceAll(ref, "$", "")

	parts := strings.Split(ref, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.Dimension{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.Dimension{}, false
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.Dimension{}, false
	}

	return models.Dimension{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}, true
}
