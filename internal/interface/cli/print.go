package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xiebiao/libconsole/internal/dispatcher"
)

// Notifier 把分发器的失败提示打印到终端，同时转交给next（通常是日志提示器）
type Notifier struct {
	w    io.Writer
	next dispatcher.Notifier
}

// NewNotifier 创建终端提示器，next可以为nil
func NewNotifier(w io.Writer, next dispatcher.Notifier) *Notifier {
	return &Notifier{w: w, next: next}
}

// NotifyError 实现dispatcher.Notifier
func (n *Notifier) NotifyError(message string) {
	fmt.Fprintln(n.w, "✗", message)
	if n.next != nil {
		n.next.NotifyError(message)
	}
}

// table 按列对齐输出
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	for i, c := range cells {
		if c == "" {
			cells[i] = "-"
		}
	}
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// pageFooter 分页信息
func pageFooter(w io.Writer, total, page, size int) {
	fmt.Fprintf(w, "共 %d 条，第 %d 页，每页 %d 条\n", total, page, size)
}
