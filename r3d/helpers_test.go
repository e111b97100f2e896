package r3d

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/mogaika/orrery/utils"
)

const epsilon = 1e-4

func assertMatrix(t *testing.T, expected, actual mgl32.Mat4, msgAndArgs ...interface{}) bool {
	t.Helper()
	if expected.ApproxEqualThreshold(actual, epsilon) {
		return true
	}
	return assert.Fail(t, "matrices differ\nexpected:\n"+utils.DumpMatrix(expected)+"actual:\n"+utils.DumpMatrix(actual), msgAndArgs...)
}

func assertVec3(t *testing.T, expected, actual mgl32.Vec3, msgAndArgs ...interface{}) bool {
	t.Helper()
	if expected.ApproxEqualThreshold(actual, epsilon) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("vectors differ: expected %v, actual %v", expected, actual), msgAndArgs...)
}
