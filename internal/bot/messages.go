package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackVerifyMembership = "verify_membership"
	callbackProcessing       = "Processing..."
)

// Messages renders the bot's replies for one campaign.
type Messages struct {
	BotName      string
	Project      string
	TokenSymbol  string
	CommunityURL string
	FrontendURL  string
	TwitterURL   string
}

func DefaultMessages() Messages {
	return Messages{
		BotName:      "SmartSentinels Telegram Verification Bot",
		Project:      "SmartSentinels",
		TokenSymbol:  "SSTL",
		CommunityURL: "https://t.me/SmartSentinelsCommunity",
		FrontendURL:  "https://smartsentinels.net",
		TwitterURL:   "https://twitter.com/SmartSentinels_",
	}
}

func (m Messages) Welcome(userID int64) string {
	return fmt.Sprintf(`
🤖 *Welcome to %[1]s Verification Bot!*

I help verify your Telegram membership for the %[2]s Airdrop Campaign.

*Your Telegram User ID:* `+"`%[3]d`"+`

*How it works:*
1️⃣ Join our community: %[4]s
2️⃣ Use the /verify command to check your membership
3️⃣ Use your User ID (%[3]d) in the airdrop website

*Available Commands:*
/verify - Check if you're a member
/myid - Get your Telegram User ID
/help - Show this help message

🌐 Visit: %[5]s
`, m.Project, m.TokenSymbol, userID, m.CommunityURL, m.FrontendURL)
}

func (m Messages) WalletLinked(wallet string) string {
	return "\n\n✅ Wallet address linked: `" + wallet + "`"
}

func (m Messages) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Verify Membership", CallbackVerifyMembership),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Go to Airdrop", m.FrontendURL),
		),
	)
}

func (m Messages) VerifySuccess(userID int64, username, status, wallet string) string {
	text := fmt.Sprintf(`
✅ *Verification Successful!*

You are a verified member of %[1]s Community!

*Your User ID:* `+"`%[2]d`"+`
*Username:* @%[3]s
*Status:* %[4]s

Use your User ID (`+"`%[2]d`"+`) on the airdrop website to claim your points!

🌐 %[5]s
`, m.Project, userID, username, status, m.FrontendURL)

	if wallet != "" {
		text += "\n*Pending wallet:* `" + wallet + "`\n"
	}
	return text
}

func (m Messages) ClaimKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🎁 Claim Airdrop Points", m.FrontendURL),
		),
	)
}

func (m Messages) VerifyFailed(status string) string {
	return fmt.Sprintf(`
❌ *Verification Failed*

You are not a member of %[1]s Community.

*Status:* %[2]s

Please join the group first:
👉 %[3]s

After joining, use /verify again to confirm your membership.
`, m.Project, status, m.CommunityURL)
}

func (m Messages) VerifyError(err error) string {
	return fmt.Sprintf(`
⚠️ *Verification Error*

Unable to verify your membership. Please make sure:
1. You've joined %[1]s
2. The bot has admin rights in the group
3. Try again in a few seconds

Error: %[2]s
`, m.CommunityURL, err.Error())
}

func (m Messages) MyID(userID int64, username string) string {
	name := "Not set"
	if username != "" {
		name = "@" + username
	}

	return fmt.Sprintf(`
🆔 *Your Telegram Information*

*User ID:* `+"`%[1]d`"+`
*Username:* %[2]s

Use this User ID on the %[3]s airdrop website to verify your membership!

💡 Tip: You can click on your User ID to copy it.
`, userID, name, m.Project)
}

func (m Messages) Help() string {
	return fmt.Sprintf(`
📖 *%[1]s Bot Help*

*Available Commands:*
/start - Start the bot and get your User ID
/verify - Verify your group membership
/myid - Get your Telegram User ID
/help - Show this help message

*How to participate in the airdrop:*
1️⃣ Join our Telegram group
2️⃣ Use /verify to confirm membership
3️⃣ Visit the airdrop website
4️⃣ Enter your User ID to verify
5️⃣ Complete tasks and earn %[2]s tokens!

🌐 Airdrop Website: %[3]s
👥 Telegram Group: %[4]s
🐦 Twitter: %[5]s

Need help? Contact the team in our Telegram group!
`, m.Project, m.TokenSymbol, m.FrontendURL, m.CommunityURL, m.TwitterURL)
}
