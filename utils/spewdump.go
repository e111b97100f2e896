package utils

import (
	"fmt"
	"log"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

func LogDump(a ...interface{}) {
	log.Println(SDump(a...))
}

// DumpMatrix prints a column-major matrix row by row.
func DumpMatrix(m mgl32.Mat4) string {
	var out strings.Builder
	for row := 0; row < 4; row++ {
		r := m.Row(row)
		fmt.Fprintf(&out, "[% 9.4f % 9.4f % 9.4f % 9.4f]\n", r[0], r[1], r[2], r[3])
	}
	return out.String()
}
