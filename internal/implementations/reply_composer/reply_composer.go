package replycomposer

import (
	"fmt"
	"remindbot/internal/core/domain/reminder"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"
)

const (
	LocaleIndonesian = "id"
	LocaleEnglish    = "en"
)

const (
	listLayout = "j M H:i"
	dateLayout = "j F Y"
	timeLayout = "H:i"
)

type phrases struct {
	at                 string
	missingTaskOrTime  string
	timeNotUnderstood  string
	reminderCreated    string
	couldNotSave       string
	pendingHeader      string
	nothingPending     string
	couldNotList       string
	missingDelete      string
	noMatchForDelete   string
	ambiguousHeader    string
	ambiguousDelete    string
	reminderDeleted    string
	couldNotDelete     string
	missingEdit        string
	missingUpdates     string
	noMatchForEdit     string
	ambiguousEdit      string
	editTimeNotUnderst string
	reminderUpdated    string
	couldNotUpdate     string
	targetQueryFailed  string
	notUnderstood      string
	classifierFailed   string
	unexpectedError    string
	tooManyMessages    string
	notification       string
}

var indonesian = phrases{
	at:                 "jam",
	missingTaskOrTime:  "Hmm, kayaknya deskripsi tugas atau waktunya kurang jelas deh. Coba lagi ya. Contoh: 'Ingatkan aku meeting penting besok jam 10'.",
	timeNotUnderstood:  "Waduh, format waktunya \"%s\" agak aneh nih. Coba format lain, misal 'besok jam 10 pagi' atau '3 jam lagi'.",
	reminderCreated:    "Oke, pengingat untuk \"%s\" sudah diatur pada %s.",
	couldNotSave:       "Gagal nyimpen pengingat di database nih. Mungkin koneksi lagi gangguan. Coba beberapa saat lagi ya.",
	pendingHeader:      "Pengingatmu yang belum selesai:",
	nothingPending:     "Kamu tidak punya pengingat yang belum selesai saat ini.",
	couldNotList:       "Gagal ngambil daftar pengingat dari database. Mungkin koneksi lagi gangguan.",
	missingDelete:      "Mau hapus pengingat yang mana nih? Kasih tau kata kuncinya ya (contoh: 'hapus pengingat meeting').",
	noMatchForDelete:   "Nggak nemu pengingat aktif yang cocok sama \"%s\". Coba cek daftar pengingatmu dulu?",
	ambiguousHeader:    "Ditemukan lebih dari satu pengingat yang cocok dengan \"%s\":",
	ambiguousDelete:    "Mohon berikan deskripsi yang lebih spesifik untuk dihapus.",
	reminderDeleted:    "Oke, pengingat untuk \"%s\" telah dihapus.",
	couldNotDelete:     "Gagal ngehapus pengingat dari database. Mungkin koneksi lagi gangguan.",
	missingEdit:        "Mau ubah pengingat yang mana nih? Kasih tau kata kuncinya ya.",
	missingUpdates:     "Mau diubah jadi apa nih? Kasih tau detailnya ya (contoh: 'ubah jadi meeting penting' atau 'ubah waktunya jadi besok jam 2 siang').",
	noMatchForEdit:     "Nggak nemu pengingat aktif yang cocok sama \"%s\" buat diubah. Coba cek daftar pengingatmu dulu?",
	ambiguousEdit:      "Mohon berikan deskripsi yang lebih spesifik untuk diubah.",
	editTimeNotUnderst: "Waduh, format waktu barunya (\"%s\") agak aneh nih. Perubahan dibatalkan. Coba pakai format lain ya.",
	reminderUpdated:    "Oke, pengingat untuk \"%s\" sekarang diatur pada %s.",
	couldNotUpdate:     "Gagal ngubah pengingat di database. Mungkin koneksi lagi gangguan.",
	targetQueryFailed:  "Gagal nyari pengingat di database. Mungkin koneksi lagi gangguan.",
	notUnderstood:      "Maaf, aku belum ngerti maksudnya. Coba bilang:\n- 'Ingatkan aku [tugas] [waktu]'\n- 'Lihat pengingatku'\n- 'Hapus pengingat [kata kunci]'\n- 'Ubah pengingat [kata kunci] jadi [perubahan]'",
	classifierFailed:   "Hmm, ada masalah pas coba ngertiin pesanmu (Error: %s). Coba lagi ya.",
	unexpectedError:    "Waduh, ada error tak terduga nih di sistem internal. Aku udah catet masalahnya, coba lagi nanti ya.",
	tooManyMessages:    "Pelan-pelan ya, pesannya kebanyakan. Coba lagi sebentar lagi.",
	notification:       "🔔 Pengingat: %s",
}

var english = phrases{
	at:                 "at",
	missingTaskOrTime:  "Hmm, the task or the time is not clear. Please try again. Example: 'Remind me about the team meeting tomorrow at 10'.",
	timeNotUnderstood:  "Sorry, I could not understand the time \"%s\". Try something like 'tomorrow at 10am' or 'in 3 hours'.",
	reminderCreated:    "Okay, the reminder for \"%s\" is set for %s.",
	couldNotSave:       "Could not save the reminder. The database may be unavailable, please try again in a moment.",
	pendingHeader:      "Your pending reminders:",
	nothingPending:     "You have no pending reminders right now.",
	couldNotList:       "Could not load your reminders. The database may be unavailable.",
	missingDelete:      "Which reminder should I delete? Tell me a keyword (for example 'delete reminder meeting').",
	noMatchForDelete:   "No pending reminder matches \"%s\". Maybe check your reminder list first?",
	ambiguousHeader:    "More than one reminder matches \"%s\":",
	ambiguousDelete:    "Please be more specific about which one to delete.",
	reminderDeleted:    "Okay, the reminder for \"%s\" has been deleted.",
	couldNotDelete:     "Could not delete the reminder. The database may be unavailable.",
	missingEdit:        "Which reminder should I change? Tell me a keyword.",
	missingUpdates:     "What should it be changed to? Tell me the details (for example 'change it to important meeting' or 'move it to tomorrow at 2pm').",
	noMatchForEdit:     "No pending reminder matches \"%s\" to change. Maybe check your reminder list first?",
	ambiguousEdit:      "Please be more specific about which one to change.",
	editTimeNotUnderst: "Sorry, I could not understand the new time (\"%s\"). Nothing was changed, please try another format.",
	reminderUpdated:    "Okay, the reminder for \"%s\" is now set for %s.",
	couldNotUpdate:     "Could not update the reminder. The database may be unavailable.",
	targetQueryFailed:  "Could not search your reminders. The database may be unavailable.",
	notUnderstood:      "Sorry, I did not get that. Try:\n- 'Remind me [task] [time]'\n- 'Show my reminders'\n- 'Delete reminder [keyword]'\n- 'Change reminder [keyword] to [change]'",
	classifierFailed:   "Hmm, something went wrong while reading your message (Error: %s). Please try again.",
	unexpectedError:    "Oops, an unexpected internal error happened. It has been logged, please try again later.",
	tooManyMessages:    "Slow down a little, too many messages. Please try again in a minute.",
	notification:       "🔔 Reminder: %s",
}

// Composer renders replies in one language. Dates are shown in the bot
// timezone.
type Composer struct {
	phrases  phrases
	timezone string
}

func New(locale string, location *time.Location) (*Composer, error) {
	if location == nil {
		location = time.UTC
	}
	switch locale {
	case LocaleIndonesian:
		return &Composer{phrases: indonesian, timezone: location.String()}, nil
	case LocaleEnglish:
		return &Composer{phrases: english, timezone: location.String()}, nil
	default:
		return nil, fmt.Errorf("unsupported reply locale '%s'", locale)
	}
}

func (c *Composer) MissingTaskOrTime() string { return c.phrases.missingTaskOrTime }

func (c *Composer) TimeNotUnderstood(expression string) string {
	return fmt.Sprintf(c.phrases.timeNotUnderstood, expression)
}

func (c *Composer) ReminderCreated(r reminder.Reminder) string {
	return fmt.Sprintf(c.phrases.reminderCreated, r.TaskDescription, c.longTime(r.At))
}

func (c *Composer) CouldNotSave() string { return c.phrases.couldNotSave }

func (c *Composer) PendingList(reminders []reminder.Reminder) string {
	var b strings.Builder
	b.WriteString(c.phrases.pendingHeader)
	b.WriteString("\n")
	c.writeLines(&b, reminders)
	return strings.TrimSpace(b.String())
}

func (c *Composer) NothingPending() string { return c.phrases.nothingPending }

func (c *Composer) CouldNotList() string { return c.phrases.couldNotList }

func (c *Composer) MissingDeleteTarget() string { return c.phrases.missingDelete }

func (c *Composer) NoMatchForDelete(target string) string {
	return fmt.Sprintf(c.phrases.noMatchForDelete, target)
}

func (c *Composer) AmbiguousForDelete(target string, candidates []reminder.Reminder) string {
	return c.ambiguous(target, candidates, c.phrases.ambiguousDelete)
}

func (c *Composer) ReminderDeleted(r reminder.Reminder) string {
	return fmt.Sprintf(c.phrases.reminderDeleted, r.TaskDescription)
}

func (c *Composer) CouldNotDelete() string { return c.phrases.couldNotDelete }

func (c *Composer) MissingEditTarget() string { return c.phrases.missingEdit }

func (c *Composer) MissingUpdates() string { return c.phrases.missingUpdates }

func (c *Composer) NoMatchForEdit(target string) string {
	return fmt.Sprintf(c.phrases.noMatchForEdit, target)
}

func (c *Composer) AmbiguousForEdit(target string, candidates []reminder.Reminder) string {
	return c.ambiguous(target, candidates, c.phrases.ambiguousEdit)
}

func (c *Composer) EditTimeNotUnderstood(expression string) string {
	return fmt.Sprintf(c.phrases.editTimeNotUnderst, expression)
}

func (c *Composer) ReminderUpdated(r reminder.Reminder) string {
	return fmt.Sprintf(c.phrases.reminderUpdated, r.TaskDescription, c.longTime(r.At))
}

func (c *Composer) CouldNotUpdate() string { return c.phrases.couldNotUpdate }

func (c *Composer) TargetQueryFailed() string { return c.phrases.targetQueryFailed }

func (c *Composer) NotUnderstood() string { return c.phrases.notUnderstood }

func (c *Composer) ClassifierFailed(err error) string {
	return fmt.Sprintf(c.phrases.classifierFailed, err.Error())
}

func (c *Composer) UnexpectedError() string { return c.phrases.unexpectedError }

func (c *Composer) TooManyMessages() string { return c.phrases.tooManyMessages }

func (c *Composer) Notification(r reminder.Reminder) string {
	return fmt.Sprintf(c.phrases.notification, r.TaskDescription)
}

func (c *Composer) ambiguous(target string, candidates []reminder.Reminder, footer string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(c.phrases.ambiguousHeader, target))
	b.WriteString("\n")
	c.writeLines(&b, candidates)
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

func (c *Composer) writeLines(b *strings.Builder, reminders []reminder.Reminder) {
	for ix, r := range reminders {
		fmt.Fprintf(b, "%d. %s (%s)\n", ix+1, r.TaskDescription, c.shortTime(r.At))
	}
}

func (c *Composer) longTime(t time.Time) string {
	at := carbon.Time2Carbon(t)
	return at.Format(dateLayout, c.timezone) + " " + c.phrases.at + " " + at.Format(timeLayout, c.timezone)
}

func (c *Composer) shortTime(t time.Time) string {
	return carbon.Time2Carbon(t).Format(listLayout, c.timezone)
}
