package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiebiao/libconsole/internal/domain/book"
	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/domain/category"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
)

// pageFlags 列表命令共用的分页参数
func pageFlags(cmd *cobra.Command, q *dto.PageQuery) {
	cmd.Flags().IntVar(&q.Page, "page", 0, "页码（默认1）")
	cmd.Flags().IntVar(&q.Size, "size", 0, "每页条数（默认10）")
}

// optionalInt flag未设置时返回nil
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func (r *runner) categoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "分类树",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathCategories); err != nil {
				return err
			}
			items, err := r.app.Client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			printCategoryTree(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "分类详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathCategories); err != nil {
				return err
			}
			c, err := r.app.Client.GetCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "上级", "名称", "编码")
			t.row(c.ID, c.ParentID, c.Name, c.Code)
			return t.flush()
		},
	})
	return cmd
}

// printCategoryTree 按parentId缩进输出；父节点不存在的分类当作顶级输出
func printCategoryTree(w io.Writer, items []category.Category) {
	children := make(map[string][]category.Category)
	known := make(map[string]bool, len(items))
	for _, c := range items {
		known[c.ID] = true
	}
	for _, c := range items {
		parent := c.ParentID
		if !known[parent] {
			parent = category.RootID
		}
		children[parent] = append(children[parent], c)
	}

	var walk func(parent string, depth int)
	visited := make(map[string]bool, len(items))
	walk = func(parent string, depth int) {
		for _, c := range children[parent] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			fmt.Fprintf(w, "%s%s [%s] %s\n", strings.Repeat("  ", depth), c.ID, c.Code, c.Name)
			walk(c.ID, depth+1)
		}
	}
	walk(category.RootID, 0)
}

func (r *runner) booksCommand() *cobra.Command {
	var q dto.BookQuery
	cmd := &cobra.Command{
		Use:   "books",
		Short: "书目列表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathBooks); err != nil {
				return err
			}
			page, err := r.app.Client.ListBooks(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printBooks(out, page.Items)
			pageFooter(out, page.Total, page.Page, page.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Keyword, "keyword", "k", "", "匹配书名、作者或ISBN")
	cmd.Flags().StringVar(&q.CategoryID, "category", "", "分类ID")
	pageFlags(cmd, &q.PageQuery)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "书目详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathBooks); err != nil {
				return err
			}
			b, err := r.app.Client.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printBooks(out, []book.Book{*b})
			if b.Description != "" {
				fmt.Fprintln(out, b.Description)
			}
			return nil
		},
	})
	return cmd
}

func printBooks(w io.Writer, items []book.Book) {
	t := newTable(w, "ID", "ISBN", "书名", "作者", "出版社", "出版日期", "分类", "标签")
	for _, b := range items {
		t.row(b.ID, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishDate, b.CategoryID, strings.Join(b.TagList(), ","))
	}
	_ = t.flush()
}

func (r *runner) copiesCommand() *cobra.Command {
	var (
		q      dto.CopyQuery
		status int
	)
	cmd := &cobra.Command{
		Use:   "copies",
		Short: "副本列表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathCopies); err != nil {
				return err
			}
			q.Status = optionalInt(cmd, "status", status)
			page, err := r.app.Client.ListCopies(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printCopies(out, page.Items)
			pageFooter(out, page.Total, page.Page, page.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Keyword, "keyword", "k", "", "匹配条码或馆藏位置")
	cmd.Flags().StringVar(&q.BookID, "book", "", "书目ID")
	cmd.Flags().IntVar(&status, "status", 0, "状态：1在架 2借出")
	pageFlags(cmd, &q.PageQuery)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "副本详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.enter(cmd, navigation.PathCopies); err != nil {
				return err
			}
			c, err := r.app.Client.GetCopy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCopies(cmd.OutOrStdout(), []bookcopy.Copy{*c})
			return nil
		},
	})
	return cmd
}

func printCopies(w io.Writer, items []bookcopy.Copy) {
	t := newTable(w, "ID", "书目", "条码", "位置", "状态")
	for _, c := range items {
		t.row(c.ID, c.BookID, c.CopyCode, c.Location, c.Status.String())
	}
	_ = t.flush()
}
