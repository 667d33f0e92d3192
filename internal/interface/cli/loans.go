package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
)

func (r *runner) loansCommand() *cobra.Command {
	var (
		q      dto.LoanQuery
		status int
	)
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "借阅记录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathLoans); err != nil {
				return err
			}
			q.Status = optionalInt(cmd, "status", status)
			page, err := r.app.Client.ListLoans(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "编号", "用户", "副本", "借出时间", "到期时间", "归还时间", "状态")
			for _, l := range page.Items {
				returned := ""
				if l.ReturnedAt != nil {
					returned = l.ReturnedAt.String()
				}
				t.row(l.ID, l.LoanNo, l.UserID, l.CopyID, l.BorrowedAt.String(), l.DueAt.String(), returned, l.Status.String())
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, page.Total, page.Page, page.Size)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.UserID, "user", "", "用户ID")
	cmd.Flags().StringVar(&q.CopyID, "copy", "", "副本ID")
	cmd.Flags().IntVar(&status, "status", 0, "状态：1借阅中 2已归还 3已逾期")
	pageFlags(cmd, &q.PageQuery)
	return cmd
}

func (r *runner) borrowCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "borrow <copyId>",
		Short: "借阅副本（借阅人为当前登录用户）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathCopies); err != nil {
				return err
			}
			if err := r.app.Client.Borrow(cmd.Context(), args[0], days); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "借阅成功: 副本 %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "借阅天数（默认14）")
	return cmd
}

func (r *runner) returnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return <copyId>",
		Short: "归还副本",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathLoans); err != nil {
				return err
			}
			if err := r.app.Client.Return(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "归还成功: 副本 %s\n", args[0])
			return nil
		},
	}
}
