package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/model"
)

func writeLargeBudget(b *testing.B, rows int) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString(header + ",Budget_2022_Total\n")
	cats := []string{"Low", "Medium", "High"}
	for i := 0; i < rows; i++ {
		total := (i*7919)%10000 + 1
		fmt.Fprintf(&sb, "Ministry %d,Demand %d,%d,%d,%d,%s,%d\n",
			i%90, i, total, total/2, total-total/2, cats[i%3], total-1)
	}
	path := filepath.Join(b.TempDir(), "budget.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoad(b *testing.B) {
	path := writeLargeBudget(b, 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTopN(b *testing.B) {
	res, err := Load(writeLargeBudget(b, 5000), nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := TopN(res.Dataset, model.FieldTotal, 5, true); err != nil {
			b.Fatal(err)
		}
	}
}
