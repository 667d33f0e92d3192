package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
)

func (r *runner) usersCommand() *cobra.Command {
	var (
		q      dto.UserQuery
		status int
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "用户列表（管理员）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathUsers); err != nil {
				return err
			}
			q.Status = optionalInt(cmd, "status", status)
			page, err := r.app.Client.ListUsers(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "用户名", "昵称", "电话", "邮箱", "状态", "角色")
			for _, u := range page.Items {
				t.row(u.ID, u.Username, u.Nickname, u.Phone, u.Email, u.Status.String(), strings.Join(u.Roles, ","))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, page.Total, page.Page, page.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Keyword, "keyword", "k", "", "匹配用户名、昵称、电话或邮箱")
	cmd.Flags().IntVar(&status, "status", 0, "状态：1启用 0停用")
	pageFlags(cmd, &q.PageQuery)

	cmd.AddCommand(&cobra.Command{
		Use:   "assign-roles <id> [role...]",
		Short: "替换用户角色（不给角色时清空）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathUsers); err != nil {
				return err
			}
			if err := r.app.Client.AssignRoles(cmd.Context(), args[0], args[1:]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "用户 %s 的角色已更新为: %s\n", args[0], strings.Join(args[1:], ","))
			return nil
		},
	})
	return cmd
}

func (r *runner) rolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "角色列表（管理员）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathRoles); err != nil {
				return err
			}
			roles, err := r.app.Client.ListRoles(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "编码", "名称", "状态")
			for _, role := range roles {
				t.row(role.ID, role.RoleCode, role.RoleName, role.Status.String())
			}
			return t.flush()
		},
	}
}
