package app

import "fmt"

// Reply keyboard labels. The router matches these literally, so the
// labels double as menu routes.
const (
	BtnHelp     = "Help"
	BtnPayment  = "Start Payment"
	BtnContact  = "Contact"
	BtnCancel   = "❌ Cancel"
	BtnApproved = "✅ Approved Users"
	BtnRejected = "❌ Rejected Users"
	BtnToAuto   = "⚙️ Switch to Auto-Approve"
	BtnToManual = "⚙️ Switch to Manual Approve"
)

const helpText = "🤝 *How to Get Access*\n\n" +
	"*ABJ Tutorial Bot* is your gateway to essential study materials for Jimma University students.\n\n" +
	"1️⃣ Press *'Start Payment'* on the main menu.\n" +
	"2️⃣ Follow the prompts to enter your name and sex.\n" +
	"3️⃣ Make the payment of *99 ETB* as per the instructions.\n" +
	"4️⃣ Upload a clear payment screenshot.\n\n" +
	"Once your submission is approved, you will receive a link to join the channel. " +
	"Learn smart, stay ahead, and succeed with ABJ Tutorial!"

const contactText = "📞 *Contact Support*\n\n" +
	"If you have any issues, please contact the admin directly:\n\n" +
	"👤 *Telegram:* @Mejido\n" +
	"📱 *Phone:* `0927429565`"

const (
	askNameText      = "📝 *Payment*\n\nPlease enter your *Full Name* "
	invalidNameText  = "That doesn't look like a valid name. Please use letters and spaces only."
	askSexText       = "✅ Great! Now, please select your sex."
	cancelledText    = "Payment process cancelled."
	submittedText    = "✅ Your screenshot has been received and is now under review."
	alreadyMember    = "You are already a member of our channel!"
	alreadyPending   = "You already have a payment submission under review. Please wait for the admin to respond."
	actionTakenText  = "--- ⚠️ Action already taken ---"
	manualModeOnText = "✅ *Manual Approve Activated.*\nNew submissions will require your immediate action."
	autoModeOnText   = "✅ *Auto-Approve Activated.*\nNew submissions will be collected for you to approve in-channel."
	noApprovedText   = "There are no approved users in the history yet."
	noRejectedText   = "There are no rejected users in the history yet."
)

func adminGreeting(firstName string) string {
	return fmt.Sprintf("*Welcome Admin*, %s", firstName)
}

func userGreeting(firstName string) string {
	return fmt.Sprintf(
		"Hello, *%s*! Welcome to the *ABJ Tutorial Bot* – your study companion on Telegram!\n\nEmpowering Tomorrow, Today.",
		firstName,
	)
}
