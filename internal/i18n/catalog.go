// Package i18n holds the user-facing strings. Keys are the English text, so
// English needs no entries and unknown locales fall back to it.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys
const (
	// Errors
	MsgFlowInterrupted       = "The sign-in flow was interrupted. Please try again."
	MsgInteractionInProgress = "Authorisation has not finished yet. Try again later, or close the window and reopen the app."
	MsgCancelled             = "You cancelled the authorisation. To sign in, allow the request in the Teams dialog."
	MsgPopupBlocked          = "The browser blocked the authorisation window. Allow pop-ups for Teams / Microsoft, or use the Teams desktop app."
	MsgNotSupported          = "This Teams client does not support this sign-in flow. Update Teams or use the web version."
	MsgEmbeddedBrowser       = "Teams blocked the embedded authorisation window. Use manual authorisation instead."
	MsgNoHostContext         = "The Teams context is not available yet. Reload the page and try again."
	MsgGraphError            = "Graph API error: %d"
	MsgUnknownError          = "Unknown error. Reload and try again."

	// States
	MsgLoadingTitle    = "Connecting..."
	MsgLoadingBody     = "Waiting for Teams to provide the current user"
	MsgConsentTitle    = "Please authorise access to Microsoft 365"
	MsgConsentBody     = "If you cannot see the Teams dialog, check whether it is hidden behind a window or blocked as a pop-up"
	MsgManualTitle     = "Safari needs manual authorisation"
	MsgManualBody      = "Teams on the web in Safari blocks automatic authorisation. Authorise in a new window, then close it and come back here."
	MsgManualButton    = "Authorise in a new window"
	MsgManualBusy      = "Authorisation in progress…"
	MsgManualHint      = "Once authorised, reload and this prompt will not appear again."
	MsgManualKey       = "Press Enter"
	MsgSuccessTitle    = "Signed in!"
	MsgErrorTitle      = "Sign-in failed"
	MsgErrorFallback   = "An unknown error occurred"
	MsgErrorHint       = "Reload this page, or close it and reopen it from the Teams personal app"
	MsgQuitHint        = "Press q to quit"

	// Environment banners
	MsgDesktopTitle    = "Teams desktop detected"
	MsgDesktopBody     = "Using the built-in Teams authorisation window. No password is needed."
	MsgMobileTitle     = "Teams mobile detected"
	MsgMobileBody      = "Using the built-in Teams mobile authorisation window."
	MsgWebTitle        = "Teams on the web detected"
	MsgWebBody         = "Authorisation happens on this page or in a new tab. In Safari, use the manual authorisation button below or the desktop app."
	MsgStandaloneTitle = "Browser mode detected"
	MsgStandaloneBody  = "Signing in with the MSAL redirect flow in this window."

	// Profile rows
	MsgLabelDisplayName = "Display name"
	MsgLabelLocalName   = "Chinese name"
	MsgLabelEnglishName = "English name"
	MsgLabelUPN         = "Account (UPN)"
	MsgLabelEmail       = "Email"
	MsgLabelJobTitle    = "Job title"
	MsgLabelDepartment  = "Department"
	MsgLabelOffice      = "Office"
	MsgLabelMobile      = "Mobile"
	MsgLabelBusiness    = "Business phone"
	MsgLabelLanguage    = "Preferred language"
	MsgLabelUserID      = "User ID"
	MsgLabelTenantID    = "Tenant ID"
	MsgListSeparator    = ", "
)

var traditionalChinese = map[string]string{
	MsgFlowInterrupted:       "登入流程中斷，請重新嘗試。",
	MsgInteractionInProgress: "授權流程尚未完成，請稍後再試或關閉視窗後重新開啟應用程式。",
	MsgCancelled:             "您取消了授權。若要完成登入，請允許 Teams 對話框中的授權要求。",
	MsgPopupBlocked:          "瀏覽器阻擋了授權視窗。請允許 Teams / Microsoft 的彈出視窗，或改用 Teams 桌面版。",
	MsgNotSupported:          "目前的 Teams 用戶端不支援此登入流程，請更新 Teams 或改用網頁版。",
	MsgEmbeddedBrowser:       "Teams 阻擋了內嵌授權視窗，請改用手動授權。",
	MsgNoHostContext:         "尚未取得 Teams context，請重新整理頁面後重試。",
	MsgGraphError:            "Graph API 錯誤：%d",
	MsgUnknownError:          "未知錯誤，請重新整理並重試。",

	MsgLoadingTitle:  "正在建立連線...",
	MsgLoadingBody:   "等待 Teams 提供目前使用者資訊",
	MsgConsentTitle:  "請授權存取 Microsoft 365",
	MsgConsentBody:   "若未看到 Teams 對話框，請檢查是否被視窗擋住或被彈出視窗阻擋",
	MsgManualTitle:   "Safari 需手動授權",
	MsgManualBody:    "Safari 網頁版 Teams 會阻擋自動授權。請在新視窗完成授權，授權後視窗可關閉並回到此頁。",
	MsgManualButton:  "在新視窗授權",
	MsgManualBusy:    "授權進行中…",
	MsgManualHint:    "授權完成後重新整理，此提示將不再出現。",
	MsgManualKey:     "按 Enter",
	MsgSuccessTitle:  "登入成功！",
	MsgErrorTitle:    "登入失敗",
	MsgErrorFallback: "發生未知錯誤",
	MsgErrorHint:     "可以重新整理此頁，或關閉後再從 Teams 個人應用程式重新開啟",
	MsgQuitHint:      "按 q 離開",

	MsgDesktopTitle:    "偵測到 Teams 桌面版",
	MsgDesktopBody:     "使用 Teams 內建授權視窗，過程中不需要輸入帳密。",
	MsgMobileTitle:     "偵測到 Teams 行動版",
	MsgMobileBody:      "使用 Teams 行動版內建授權視窗。",
	MsgWebTitle:        "偵測到 Teams 網頁版",
	MsgWebBody:         "授權流程將在同一頁面或新分頁進行。若是 Safari 可使用下方手動授權按鈕或改用桌面版。",
	MsgStandaloneTitle: "偵測到瀏覽器模式",
	MsgStandaloneBody:  "使用 MSAL loginRedirect 流程完成登入，可直接在同一視窗登入。",

	MsgLabelDisplayName: "顯示名稱",
	MsgLabelLocalName:   "中文姓名",
	MsgLabelEnglishName: "英文姓名",
	MsgLabelUPN:         "帳號 (UPN)",
	MsgLabelEmail:       "Email",
	MsgLabelJobTitle:    "職稱",
	MsgLabelDepartment:  "部門",
	MsgLabelOffice:      "辦公地點",
	MsgLabelMobile:      "手機",
	MsgLabelBusiness:    "公司電話",
	MsgLabelLanguage:    "偏好語言",
	MsgLabelUserID:      "使用者 ID",
	MsgLabelTenantID:    "租戶 ID",
	MsgListSeparator:    "、",
}

var supported = []language.Tag{language.English, language.TraditionalChinese}

var matcher = language.NewMatcher(supported)

func init() {
	for key, msg := range traditionalChinese {
		if err := message.SetString(language.TraditionalChinese, key, msg); err != nil {
			panic(err)
		}
	}
}

// Tag resolves a host locale such as "zh-tw" or "en-US" to a supported language
func Tag(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return language.English
	}
	_, index, _ := matcher.Match(language.Make(locale))
	return supported[index]
}

// Printer returns a printer for locale
func Printer(locale string) *message.Printer {
	return message.NewPrinter(Tag(locale))
}
