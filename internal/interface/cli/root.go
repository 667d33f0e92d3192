package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/interface/navigation"
)

// rootCommand 命令树
// REPL每执行一行都会重新构建一棵命令树，避免上一行的flag值残留
func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "libconsole",
		Short:         "图书馆管理控制台",
		Long:          "图书馆管理控制台：书目、副本、借阅、用户管理，可连接内置模拟引擎或远端服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.ensure()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&r.configPath, "config", "c", r.configPath, "配置文件路径")

	root.AddCommand(
		r.loginCommand(),
		r.logoutCommand(),
		r.registerCommand(),
		r.resetPasswordCommand(),
		r.whoamiCommand(),
		r.categoriesCommand(),
		r.booksCommand(),
		r.copiesCommand(),
		r.loansCommand(),
		r.borrowCommand(),
		r.returnCommand(),
		r.usersCommand(),
		r.rolesCommand(),
		r.navigateCommand(),
		r.eventsCommand(),
		r.replCommand(),
	)
	return root
}

// enter 进入页面；守卫重定向到别处时打印跳转结果并返回ErrRedirected
func (r *runner) enter(cmd *cobra.Command, path string) error {
	loc, err := r.app.History.Navigate(path)
	if err != nil {
		return err
	}
	if pathOf(loc) == path {
		return nil
	}
	switch pathOf(loc) {
	case navigation.PathLogin:
		fmt.Fprintf(cmd.ErrOrStderr(), "需要登录才能访问 %s，请先执行 login\n", path)
	case navigation.PathForbidden:
		fmt.Fprintf(cmd.ErrOrStderr(), "当前账号无权访问 %s\n", path)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "已跳转到 %s\n", loc)
	}
	return ErrRedirected
}

// pathOf 去掉查询串
func pathOf(location string) string {
	p, _, _ := strings.Cut(location, "?")
	return p
}

func (r *runner) navigateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "跳转到页面（经过路由守卫）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := r.app.History.Navigate(args[0])
			if err != nil {
				return err
			}
			route := r.app.History.Route()
			fmt.Fprintf(cmd.OutOrStdout(), "当前页面: %s (%s)\n", loc, route.Name)
			return nil
		},
	}
}
