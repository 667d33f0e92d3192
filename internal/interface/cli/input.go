package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// 测试替身：测试里替换掉，避免访问真实终端
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine 读取一行并去掉首尾空白；EOF前读到的残行照常返回
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptLine 打印提示并读取一行
func (a *App) promptLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(a.Err, prompt+": "); err != nil {
		return "", err
	}
	return readLine(a.lineReader())
}

// promptPassword 读取密码
// 输入是终端时不回显；管道输入（脚本、测试）按普通行读取
func (a *App) promptPassword(prompt string) (string, error) {
	if _, err := fmt.Fprint(a.Err, prompt+": "); err != nil {
		return "", err
	}
	if f, ok := a.In.(*os.File); ok && isTerminal(int(f.Fd())) {
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(a.Err)
		if err != nil {
			return "", fmt.Errorf("读取密码失败: %w", err)
		}
		return string(pw), nil
	}
	return readLine(a.lineReader())
}

// passwordOrPrompt 命令行没给密码时交互读取
func (a *App) passwordOrPrompt(flag, prompt string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	pw, err := a.promptPassword(prompt)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("密码不能为空")
	}
	return pw, nil
}
