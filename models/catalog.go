package models

// Catalog is the embedded task list. Order matters for display: hot tasks
// first, onboarding tasks last.
var Catalog = []Task{
	{
		ID:           "1",
		Title:        "Post a Sonavo Image on CoinMarketCap",
		Description:  "Create a unique post on CoinMarketCap with one of the specified tokens and an image.",
		Difficulty:   DifficultyEasy,
		Reward:       8.00,
		Link:         "https://coinmarketcap.com/currencies/bitcoin/",
		Instructions: "Choose one token from the list, download and attach the provided image, write a unique crypto-related message, include the chosen token symbol.",
		IsHot:        true,
		ImageURL:     "https://images.pexels.com/photos/843700/pexels-photo-843700.jpeg",
		Tokens: []TokenRef{
			{Symbol: "$BTC", URL: "https://coinmarketcap.com/currencies/bitcoin/"},
			{Symbol: "$XRP", URL: "https://coinmarketcap.com/currencies/xrp/"},
			{Symbol: "$PI", URL: "https://coinmarketcap.com/currencies/pi/"},
			{Symbol: "$ETH", URL: "https://coinmarketcap.com/currencies/ethereum/"},
			{Symbol: "$SOL", URL: "https://coinmarketcap.com/currencies/solana/"},
		},
	},
	{
		ID:           "2",
		Title:        "Post on CoinMarketCap using $MAT",
		Description:  "Create a short, meaningful post that includes the token $MAT on the Matchain project page.",
		Difficulty:   DifficultyEasy,
		Reward:       6.00,
		Link:         "https://coinmarketcap.com/currencies/matchain/",
		Instructions: "Visit the Matchain page on CoinMarketCap, create a meaningful post that includes $MAT token.",
	},
	{
		ID:           "3",
		Title:        "Add $OASIS to your CoinGecko Watchlist",
		Description:  "Add the Oasis token to your personal Watchlist by clicking the ★ icon.",
		Difficulty:   DifficultyEasy,
		Reward:       3.00,
		Link:         "https://www.coingecko.com/en/coins/oasis",
		Instructions: "Go to CoinGecko, find the Oasis token page, and add it to your watchlist.",
	},
	{
		ID:           "4",
		Title:        "Follow BitDAO on Snapshot",
		Description:  "Go to the Snapshot platform and follow BitDAO by clicking the \"Follow\" button.",
		Difficulty:   DifficultyEasy,
		Reward:       2.00,
		Link:         "https://snapshot.box/#/s:bitdao.eth",
		Instructions: "Visit the BitDAO page on Snapshot platform and click the \"Follow\" button at the top of the page.",
		Type:         "Snapshot / Social",
	},
	{
		ID:           "5",
		Title:        "Complete \"Get Started\" on Layer3",
		Description:  "Complete the \"Get Started\" quest on Layer3 platform which includes basic onboarding actions.",
		Difficulty:   DifficultyEasy,
		Reward:       2.00,
		Link:         "https://app.layer3.xyz/activations/get-started",
		Instructions: "Find the \"Get Started\" quest under Featured or Quests section. Complete all steps including following, connecting, and reading. Submit a screenshot showing the quest marked as \"Completed\" or all steps checked.",
		Type:         "Quest / Layer3",
	},
	{
		ID:           "6",
		Title:        "Join BullPerks Campaign on TaskOn",
		Description:  "Connect to the BullPerks campaign on TaskOn platform.",
		Difficulty:   DifficultyEasy,
		Reward:       1.00,
		Link:         "https://taskon.xyz/BullPerks",
		Instructions: "Visit the BullPerks campaign page and click \"Join Campaign\" at the top. Submit a screenshot showing \"In Progress\" or confirmed participation.",
		Type:         "TaskOn / Campaign",
	},
	{
		ID:           "7",
		Title:        "Earn Points on BullPerks (TaskOn)",
		Description:  "Complete available tasks on BullPerks campaign to earn 100 Points.",
		Difficulty:   DifficultyEasy,
		Reward:       3.00,
		Link:         "https://taskon.xyz/BullPerks?oauth_type=Twitter",
		Instructions: "Complete any available task (Follow on Twitter, Join Telegram, Link Email, Visit Webpage, etc.). Click \"Verify & Claim\" to receive 100 Points. Submit a screenshot showing your earned 100 Points.",
		Type:         "TaskOn / Activity",
	},
	{
		ID:           "8",
		Title:        "Follow DeFiWhale on DeBank",
		Description:  "Visit the following profile on DeBank and follow DeFiWhale profile.",
		Difficulty:   DifficultyEasy,
		Reward:       4.00,
		Link:         "https://debank.com/profile/0x3e8734ec146c981e3ed1f6b582d447dde701d90c/stream",
		Instructions: "Visit the DeFiWhale profile on DeBank and click the \"+ Following\" button to follow the profile. DeBank is a trusted DeFi portfolio platform used by whales and traders.",
		Type:         "DeBank / Social",
	},
	{
		ID:           "9",
		Title:        "Follow Brahma on DeBank",
		Description:  "Go to the official Brahma profile on DeBank and follow the account.",
		Difficulty:   DifficultyEasy,
		Reward:       1.00,
		Link:         "https://debank.com/official/Brahma/stream",
		Instructions: "Visit the official Brahma profile on DeBank and click the \"+ Following\" button to follow the account.",
		Type:         "DeBank / Social",
	},
	{
		ID:           "10",
		Title:        "Engage with Aave's Video Post on Warpcast",
		Description:  "Like and Recast Aave's video post on Warpcast platform.",
		Difficulty:   DifficultyEasy,
		Reward:       1.00,
		Link:         "https://hey.xyz/posts/1w639hnr5xt75n6r273",
		Instructions: "Go to the post by @aave on Warpcast. Like and Recast (repost) the video.",
		Type:         "Warpcast / Social",
	},
	{
		ID:           "11",
		Title:        "Follow RLinda on TradingView",
		Description:  "Follow RLinda, one of the top crypto analysts on TradingView.",
		Difficulty:   DifficultyEasy,
		Reward:       2.00,
		Link:         "https://www.tradingview.com/u/RLinda/",
		Instructions: "Visit the TradingView profile and click the \"Follow\" button at the top of the profile to follow this author. RLinda is one of the top crypto analysts on the platform.",
		Type:         "TradingView / Social",
	},
	{
		ID:           TaskSurvey,
		Title:        "Answer a Short Survey",
		Description:  "Help us understand your Web3 interests.",
		Difficulty:   DifficultyEasy,
		Reward:       0,
		Instructions: "Answer all questions to complete this task.",
		Type:         "Internal / Survey",
	},
	{
		ID:           TaskTelegram,
		Title:        "Join Telegram",
		Description:  "Join our Telegram community to stay informed and connected.",
		Difficulty:   DifficultyEasy,
		Reward:       0,
		Link:         "https://t.me/+atUr8L_y6nJhMWVi",
		Instructions: "Open the Telegram link and click \"Join\".",
		Type:         "Social",
	},
	{
		ID:           TaskInstagram,
		Title:        "Follow on Instagram",
		Description:  "Follow us on Instagram to receive the latest updates.",
		Difficulty:   DifficultyEasy,
		Reward:       0,
		Link:         "https://www.instagram.com/",
		Instructions: "Go to our Instagram page and click \"Follow\".",
		Type:         "Social",
	},
}

// TaskByID looks up a catalog entry.
func TaskByID(id string) (Task, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// SurveyQuestion is one step of the onboarding survey.
type SurveyQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SurveyQuestions is the 5-step onboarding survey. Any answer index is
// valid; answers are not persisted beyond the completion flag.
var SurveyQuestions = []SurveyQuestion{
	{
		Question: "How did you hear about Sonavo?",
		Options:  []string{"Social Media", "Friend", "Search", "Other"},
	},
	{
		Question: "What interests you most about Web3?",
		Options:  []string{"Earning Opportunities", "Technology", "Community", "Innovation"},
	},
	{
		Question: "How experienced are you with crypto?",
		Options:  []string{"Beginner", "Intermediate", "Advanced", "Expert"},
	},
	{
		Question: "What type of tasks interest you most?",
		Options:  []string{"Social", "Technical", "Creative", "Educational"},
	},
	{
		Question: "How much time can you dedicate weekly?",
		Options:  []string{"1-2 hours", "3-5 hours", "5-10 hours", "10+ hours"},
	},
}
