package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocubes/mcscale/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFirstLine(t *testing.T) {
	path := writeFile(t, "osrelease", "6.8.0-custom\n")
	assert.Equal(t, "6.8.0-custom", firstLine(path))

	assert.Equal(t, "", firstLine(filepath.Join(t.TempDir(), "missing")))
}

func TestCPUModel(t *testing.T) {
	cpuinfo := `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz
cache size	: 35840 KB

processor	: 1
model name	: Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz
`
	path := writeFile(t, "cpuinfo", cpuinfo)
	assert.Equal(t, "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz", cpuModel(path))

	assert.Equal(t, "", cpuModel(writeFile(t, "empty", "processor : 0\n")))
	assert.Equal(t, "", cpuModel(filepath.Join(t.TempDir(), "missing")))
}

func TestMemTotal(t *testing.T) {
	meminfo := `MemTotal:       16309236 kB
MemFree:         1868844 kB
MemAvailable:    9574684 kB
`
	path := writeFile(t, "meminfo", meminfo)
	mem, ok := memTotal(path)
	require.True(t, ok)
	assert.Equal(t, types.Bytes(16309236*1024), mem)

	_, ok = memTotal(writeFile(t, "short", "MemTotal:\n"))
	assert.False(t, ok)
	_, ok = memTotal(writeFile(t, "garbage", "MemTotal: lots kB\n"))
	assert.False(t, ok)
	_, ok = memTotal(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	info := Summary()

	assert.NotEmpty(t, info.Hostname)
	assert.NotEmpty(t, info.Kernel)
	assert.NotEmpty(t, info.CPUModel)
	assert.GreaterOrEqual(t, info.CPUs, 1)
}
