package loan

import (
	"fmt"
	"time"
)

// FormatLoanNo 生成借阅编号
// 格式:LN + 借出日期(yyyyMMdd) + 5位当日序号
// 示例:LN2025082800003
//
// 序号由存储层按天维护，删除记录不会让编号回退或重复
func FormatLoanNo(day time.Time, seq int) string {
	return fmt.Sprintf("LN%s%05d", day.Format("20060102"), seq)
}

// DayKey 当日序号计数器的键
func DayKey(t time.Time) string {
	return t.Format("20060102")
}
