package tui

import (
	"strings"

	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"github.com/jrsteele09/go-teams-profile/users"
	"golang.org/x/text/message"
)

// Row is one labelled profile value
type Row struct {
	Label string
	Value string
}

// Rows lists the known profile values in display order
func Rows(user users.UserInfo, p *message.Printer) []Row {
	rows := []Row{
		{p.Sprintf(i18n.MsgLabelDisplayName), user.DisplayName},
		{p.Sprintf(i18n.MsgLabelLocalName), user.LocalName()},
		{p.Sprintf(i18n.MsgLabelEnglishName), user.EnglishName()},
		{p.Sprintf(i18n.MsgLabelUPN), user.UserPrincipalName},
		{p.Sprintf(i18n.MsgLabelEmail), user.Email},
		{p.Sprintf(i18n.MsgLabelJobTitle), user.JobTitle},
		{p.Sprintf(i18n.MsgLabelDepartment), user.Department},
		{p.Sprintf(i18n.MsgLabelOffice), user.OfficeLocation},
		{p.Sprintf(i18n.MsgLabelMobile), user.MobilePhone},
		{p.Sprintf(i18n.MsgLabelBusiness), strings.Join(user.BusinessPhones, p.Sprintf(i18n.MsgListSeparator))},
		{p.Sprintf(i18n.MsgLabelLanguage), user.PreferredLanguage},
		{p.Sprintf(i18n.MsgLabelUserID), user.ID},
		{p.Sprintf(i18n.MsgLabelTenantID), user.TenantID},
	}

	known := rows[:0]
	for _, row := range rows {
		if row.Value != "" {
			known = append(known, row)
		}
	}
	return known
}

// Banner describes how the environment signs in. ok is false for unknown.
func Banner(environment host.Environment, p *message.Printer) (title, body string, ok bool) {
	switch environment {
	case host.EnvironmentTeamsDesktop:
		return p.Sprintf(i18n.MsgDesktopTitle), p.Sprintf(i18n.MsgDesktopBody), true
	case host.EnvironmentTeamsMobile:
		return p.Sprintf(i18n.MsgMobileTitle), p.Sprintf(i18n.MsgMobileBody), true
	case host.EnvironmentTeamsWeb:
		return p.Sprintf(i18n.MsgWebTitle), p.Sprintf(i18n.MsgWebBody), true
	case host.EnvironmentStandalone:
		return p.Sprintf(i18n.MsgStandaloneTitle), p.Sprintf(i18n.MsgStandaloneBody), true
	}
	return "", "", false
}
