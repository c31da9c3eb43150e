package handler

import (
	"fmt"
	"strings"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/service"

	tele "gopkg.in/telebot.v3"
)

const lettersPerRow = 6

func letterLabel(letter string) string {
	if letter == domain.AllLetters || letter == "" {
		return "All letters"
	}
	return "Letter " + letter
}

// letterPhrase is letterLabel for use mid-sentence
func letterPhrase(letter string) string {
	if letter == domain.AllLetters || letter == "" {
		return "all letters"
	}
	return "letter " + letter
}

// cardText renders the front of the card, plus the back once flipped
func cardText(view domain.CardView) string {
	text := fmt.Sprintf("🔤 %s · card %d of %d", letterLabel(view.Letter), view.Position, view.Total)
	if view.Round > 0 {
		text += fmt.Sprintf("\n🔁 Round %d · waiting: again %d, hard %d, good %d", view.Round,
			view.Parked[domain.Again], view.Parked[domain.Hard], view.Parked[domain.Good])
	}
	text += "\n\n" + view.FrontText
	if view.Flipped {
		text += "\n\n" + view.BackText
	}
	return text
}

// cardMarkup shows Flip and navigation before the answer is revealed and
// only the grade buttons of the active scheduler after
func cardMarkup(view domain.CardView, grades []domain.Grade) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	if view.Flipped {
		gradeRow := tele.Row{}
		for _, g := range grades {
			gradeRow = append(gradeRow, markup.Data(gradeLabel(g, view.Intervals), btnGrade.Unique, g.String()))
		}
		rows = append(rows, gradeRow)
	} else {
		rows = append(rows, markup.Row(btnFlip))
		rows = append(rows, markup.Row(btnPrev, btnNext))
	}
	rows = append(rows, markup.Row(btnLetters, btnStats))

	markup.Inline(rows...)
	return markup
}

// gradeLabel adds the interval a grade would schedule, e.g. "Good · 6d"
func gradeLabel(g domain.Grade, intervals map[domain.Grade]int) string {
	days, ok := intervals[g]
	if !ok {
		return g.Label()
	}
	return fmt.Sprintf("%s · %dd", g.Label(), days)
}

// wordText shows a looked-up word with both faces of its card
func wordText(e domain.VocabEntry) string {
	return "📖 " + e.FrontText() + "\n\n" + e.BackText()
}

// emptyText explains an empty queue: every card finished, nothing due yet,
// or no words under the letter at all
func emptyText(letter string, report domain.Report, wordsUnderLetter int) string {
	if len(report.Learned) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "🎉 You've mastered %s!\n\nLearned (%d):\n", letterPhrase(letter), len(report.Learned))
		for i, e := range report.Learned {
			fmt.Fprintf(&b, "%d. %s\n", i+1, e.FrontText())
		}
		return strings.TrimRight(b.String(), "\n")
	}
	if wordsUnderLetter == 0 {
		if letter == domain.AllLetters {
			return "📭 No words available."
		}
		return fmt.Sprintf("📭 No words for %s.", letter)
	}
	return fmt.Sprintf("✅ Nothing due for %s today. Come back later!", letterPhrase(letter))
}

func emptyMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnRestart),
		markup.Row(btnLetters, btnStats),
	)
	return markup
}

// wordsUnder counts the words starting with letter ("all" counts everything)
func wordsUnder(opts []deck.LetterOption, letter string) int {
	n := 0
	for _, o := range opts {
		if letter == domain.AllLetters || o.Letter == letter {
			n += o.Count
		}
	}
	return n
}

// lettersMarkup offers the letters that have words, then All
func lettersMarkup(opts []deck.LetterOption) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	btns := []tele.Btn{}
	for _, o := range opts {
		if o.Available {
			btns = append(btns, markup.Data(o.Letter, btnLetter.Unique, o.Letter))
		}
	}

	rows := markup.Split(lettersPerRow, btns)
	rows = append(rows, markup.Row(markup.Data("📚 All", btnLetter.Unique, domain.AllLetters)))
	markup.Inline(rows...)
	return markup
}

// statsText renders the due summary of a learner
func statsText(summary service.DueSummary, today domain.Date) string {
	text := fmt.Sprintf(
		"📊 Your progress\n\nDue today: %d\nScheduled later: %d\nNever seen: %d",
		summary.DueToday, summary.Later, summary.NeverSeen,
	)
	if summary.NextDue != "" {
		text += "\nNext review: " + summary.NextDue.DisplayString(today)
	}
	return text
}

// reminderText is sent by the daily reminder
func reminderText(count int) string {
	if count == 1 {
		return "⏰ 1 card is due for review today."
	}
	return fmt.Sprintf("⏰ %d cards are due for review today.", count)
}
