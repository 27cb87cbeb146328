package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"github.com/jrsteele09/go-teams-profile/users"
	"github.com/jrsteele09/go-teams-profile/view"
	"github.com/jrsteele09/go-teams-profile/view/tui"
	"github.com/stretchr/testify/require"
)

var wang = users.UserInfo{
	DisplayName:       "王小明",
	Email:             "wang@contoso.com",
	UserPrincipalName: "wang@contoso.com",
	LocalSurname:      "王",
	LocalGivenName:    "小明",
	BusinessPhones:    []string{"+886 2 1234 5678", "+886 2 8765 4321"},
	TenantID:          "tenant-1",
}

func TestRows(t *testing.T) {
	rows := tui.Rows(wang, i18n.Printer("zh-TW"))

	require.Equal(t, []tui.Row{
		{Label: "顯示名稱", Value: "王小明"},
		{Label: "中文姓名", Value: "王小明"},
		{Label: "帳號 (UPN)", Value: "wang@contoso.com"},
		{Label: "Email", Value: "wang@contoso.com"},
		{Label: "公司電話", Value: "+886 2 1234 5678、+886 2 8765 4321"},
		{Label: "租戶 ID", Value: "tenant-1"},
	}, rows)

	require.Empty(t, tui.Rows(users.UserInfo{}, i18n.Printer("en")))
}

func TestBanner(t *testing.T) {
	p := i18n.Printer("zh-TW")

	title, _, ok := tui.Banner(host.EnvironmentTeamsDesktop, p)
	require.True(t, ok)
	require.Equal(t, "偵測到 Teams 桌面版", title)

	title, _, ok = tui.Banner(host.EnvironmentStandalone, p)
	require.True(t, ok)
	require.Equal(t, "偵測到瀏覽器模式", title)

	_, _, ok = tui.Banner(host.EnvironmentUnknown, p)
	require.False(t, ok)
}

func TestModel_ManualEnter(t *testing.T) {
	calls := 0
	manual := func(context.Context) error {
		calls++
		return nil
	}
	model := tui.NewModel(context.Background(), auth.Snapshot{Status: view.StatusManual}, i18n.Printer("en"), manual)
	require.Contains(t, model.View(), i18n.MsgManualButton)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Contains(t, updated.View(), i18n.MsgManualBusy)

	cmd()
	require.Equal(t, 1, calls)

	_, cmd = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "a second press is ignored while signing in")
}

func TestModel_EnterOutsideManual(t *testing.T) {
	manual := func(context.Context) error { return errors.New("must not run") }
	model := tui.NewModel(context.Background(), auth.Snapshot{Status: view.StatusLoading}, i18n.Printer("en"), manual)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
}

func TestModel_Snapshots(t *testing.T) {
	model := tui.NewModel(context.Background(), auth.Snapshot{Status: view.StatusLoading}, i18n.Printer("zh-TW"), nil)
	require.Contains(t, model.View(), "正在建立連線...")

	updated, _ := model.Update(tui.SnapshotMsg{
		Status:      view.StatusSuccess,
		Environment: host.EnvironmentTeamsDesktop,
		User:        &wang,
	})
	out := updated.View()
	require.Contains(t, out, "登入成功！")
	require.Contains(t, out, "偵測到 Teams 桌面版")
	require.Contains(t, out, "+886 2 1234 5678、+886 2 8765 4321")

	updated, _ = updated.Update(tui.SnapshotMsg{Status: view.StatusError, Err: auth.NewError(auth.KindPopupBlocked, nil)})
	require.Contains(t, updated.View(), "瀏覽器阻擋了授權視窗")
}

func TestModel_Quit(t *testing.T) {
	model := tui.NewModel(context.Background(), auth.Snapshot{}, i18n.Printer("en"), nil)
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.Empty(t, updated.View())
}

func TestRender(t *testing.T) {
	out := tui.Render(auth.Snapshot{
		Status:      view.StatusSuccess,
		Environment: host.EnvironmentStandalone,
		User:        &wang,
	}, i18n.Printer("en"))

	require.True(t, strings.HasPrefix(out, "[Browser mode detected]"))
	require.Contains(t, out, "  Display name: 王小明\n")
	require.Contains(t, out, "  Business phone: +886 2 1234 5678, +886 2 8765 4321\n")

	out = tui.Render(auth.Snapshot{Status: view.StatusError}, i18n.Printer("en"))
	require.Contains(t, out, i18n.MsgErrorFallback)
}
