package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
)

func (r *runner) loginCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "登录",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app
			if p := app.Session.Current(); p != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "已登录为 %s，如需切换账号请先执行 logout\n", p.Username)
				return ErrRedirected
			}
			// 被守卫送到登录页时地址里带着redirect，登录后回到原页面
			if pathOf(app.History.Current()) != navigation.PathLogin {
				if err := r.enter(cmd, navigation.PathLogin); err != nil {
					return err
				}
			}
			loginURL := app.History.Current()

			pw, err := app.passwordOrPrompt(password, "密码")
			if err != nil {
				return err
			}
			session, err := app.Session.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			printWelcome(cmd.OutOrStdout(), session.User)
			return r.goTo(cmd, navigation.RedirectTarget(loginURL))
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "密码（不提供时交互输入）")
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "退出登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := r.app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "已退出登录")
			return err
		},
	}
}

func (r *runner) registerCommand() *cobra.Command {
	var (
		password string
		req      dto.RegisterRequest
	)
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "读者自助注册（注册后自动登录）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app
			if err := r.enter(cmd, navigation.PathRegister); err != nil {
				return err
			}
			pw, err := app.passwordOrPrompt(password, "密码")
			if err != nil {
				return err
			}
			req.Username, req.Password = args[0], pw
			if req.Nickname == "" {
				req.Nickname = req.Username
			}
			session, err := app.Session.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			printWelcome(cmd.OutOrStdout(), session.User)
			return r.goTo(cmd, navigation.PathBooks)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "密码（不提供时交互输入）")
	cmd.Flags().StringVar(&req.Nickname, "nickname", "", "昵称（默认与用户名相同）")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "手机号")
	cmd.Flags().StringVar(&req.Email, "email", "", "邮箱")
	return cmd
}

func (r *runner) resetPasswordCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "重置密码",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app
			if err := r.enter(cmd, navigation.PathPasswordReset); err != nil {
				return err
			}
			pw, err := app.passwordOrPrompt(password, "新密码")
			if err != nil {
				return err
			}
			if err := app.Session.ResetPassword(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "密码已重置，请使用新密码登录")
			return r.goTo(cmd, navigation.PathLogin)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "新密码（不提供时交互输入）")
	return cmd
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "当前登录用户",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := r.app.Session.Current()
			if p == nil {
				fmt.Fprintln(out, "未登录")
				return nil
			}
			t := newTable(out, "ID", "用户名", "昵称", "电话", "邮箱", "角色")
			t.row(p.ID, p.Username, p.Nickname, p.Phone, p.Email, strings.Join(p.Roles, ","))
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "当前页面: %s\n", r.app.History.Current())
			return nil
		},
	}
}

// goTo 跳转并打印最终停留的页面
func (r *runner) goTo(cmd *cobra.Command, target string) error {
	loc, err := r.app.History.Navigate(target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "当前页面: %s\n", loc)
	return nil
}

func printWelcome(w io.Writer, p *user.Profile) {
	if p == nil {
		fmt.Fprintln(w, "登录成功")
		return
	}
	fmt.Fprintf(w, "欢迎，%s（%s）\n", p.Nickname, strings.Join(p.Roles, ","))
}
