package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/engine"
)

// ErrEventsDisabled 没有配置消息队列
var ErrEventsDisabled = errors.New("未配置消息队列（mq.url）")

func (r *runner) eventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "实时查看借阅事件（Ctrl+C结束）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.app.OpenEvents == nil {
				return ErrEventsDisabled
			}
			src, err := r.app.OpenEvents()
			if err != nil {
				return err
			}
			defer src.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "等待借阅事件...")
			return src.Consume(cmd.Context(), func(_ context.Context, routingKey string, body []byte) error {
				var evt engine.LoanEvent
				if err := json.Unmarshal(body, &evt); err != nil {
					// 格式不对的消息重新入队也无法处理，直接确认
					fmt.Fprintf(cmd.ErrOrStderr(), "无法解析的事件 %s: %v\n", routingKey, err)
					return nil
				}
				fmt.Fprintln(out, formatLoanEvent(evt))
				return nil
			})
		},
	}
}

func formatLoanEvent(evt engine.LoanEvent) string {
	action := evt.Type
	switch evt.Type {
	case engine.EventLoanBorrowed:
		action = "借出"
	case engine.EventLoanReturned:
		action = "归还"
	}
	return fmt.Sprintf("[%s] %s %s 用户=%s 副本=%s 到期=%s",
		evt.OccurredAt.String(), action, evt.LoanNo, evt.UserID, evt.CopyID, evt.DueAt.String())
}
