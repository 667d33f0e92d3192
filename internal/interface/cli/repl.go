package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (r *runner) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "交互模式（exit或quit退出）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runREPL(cmd)
		},
	}
}

// runREPL 读一行、按空白切分、交给新的命令树执行
// 会话与当前页面在各行之间保持，单行失败不会结束循环
func (r *runner) runREPL(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	reader := r.app.lineReader()
	fmt.Fprintln(out, "输入 help 查看命令，exit 退出")

	for {
		fmt.Fprint(out, r.prompt())
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "exit", "quit":
			return nil
		case "repl":
			fmt.Fprintln(out, "已经在交互模式中")
			continue
		}

		sub := r.rootCommand()
		sub.SetArgs(fields)
		sub.SetOut(out)
		sub.SetErr(cmd.ErrOrStderr())
		if err := sub.ExecuteContext(cmd.Context()); err != nil {
			r.report(err)
		}
		if cmd.Context().Err() != nil {
			return nil
		}
	}
}

// prompt 显示当前用户与页面，例如 "admin@/books> "
func (r *runner) prompt() string {
	name := "guest"
	if p := r.app.Session.Current(); p != nil {
		name = p.Username
	}
	return fmt.Sprintf("%s@%s> ", name, r.app.History.Current())
}
