package importer

import (
	"strconv"
	"strings"
	"time"

	"seramik-backend/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const peopleSheetName = "Öğrenci Listesi"

// ImportResult: içe aktarma özeti
type ImportResult struct {
	PeopleAdded   int      `json:"people_added"`
	PeopleSkipped int      `json:"people_skipped"`
	SessionsAdded int      `json:"sessions_added"`
	SessionsSkip  int      `json:"sessions_skipped"`
	Warnings      []string `json:"warnings"`
}

// ImportWorkbook: şablondaki iki sayfayı içe alır; "Öğrenci Listesi" kişileri,
// adında "Takvim" geçen sayfa seansları. Mevcut kayıtlar atlanır.
func ImportWorkbook(db *gorm.DB, f *excelize.File) (*ImportResult, error) {
	result := &ImportResult{Warnings: []string{}}

	sheets := f.GetSheetList()

	hasPeople := false
	calendarSheet := ""
	for _, name := range sheets {
		if name == peopleSheetName {
			hasPeople = true
		}
		if calendarSheet == "" && strings.Contains(name, "Takvim") {
			calendarSheet = name
		}
	}

	if hasPeople {
		if err := importPeople(db, f, result); err != nil {
			return nil, err
		}
	} else {
		result.Warnings = append(result.Warnings, "'Öğrenci Listesi' sayfası bulunamadı")
	}

	if calendarSheet != "" {
		if err := importSessions(db, f, calendarSheet, result); err != nil {
			return nil, err
		}
	} else {
		result.Warnings = append(result.Warnings, "Takvim sayfası bulunamadı")
	}

	return result, nil
}

// pickColumn: başlık satırında alternatif isimlerden ilk eşleşenin indeksini
// döner (büyük/küçük harf duyarsız). Bulunamazsa -1.
func pickColumn(header []string, alts ...string) int {
	for _, alt := range alts {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), alt) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func importPeople(db *gorm.DB, f *excelize.File, result *ImportResult) error {
	rows, err := f.GetRows(peopleSheetName)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		result.Warnings = append(result.Warnings, "'Öğrenci Listesi' sayfası boş")
		return nil
	}

	header := rows[0]
	nameCol := pickColumn(header, "Ad Soyad", "Ad", "İsim", "Öğrenci")
	phoneCol := pickColumn(header, "Telefon", "Tel", "GSM")
	igCol := pickColumn(header, "Instagram", "IG", "İnstagram")
	noteCol := pickColumn(header, "Not", "Açıklama")

	if nameCol < 0 {
		result.Warnings = append(result.Warnings, "'Öğrenci Listesi' sayfasında 'Ad Soyad' bulunamadı")
		return nil
	}

	today := time.Now()
	for _, row := range rows[1:] {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		phone := cellAt(row, phoneCol)
		ig := cellAt(row, igCol)
		note := cellAt(row, noteCol)

		// Önce telefona, sonra isme göre mükerrer kontrolü
		var count int64
		if phone != "" {
			if err := db.Model(&models.Person{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
				return err
			}
		}
		if count == 0 {
			if err := db.Model(&models.Person{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
				return err
			}
		}
		if count > 0 {
			result.PeopleSkipped++
			continue
		}

		person := models.Person{
			Name:       name,
			Notes:      note,
			IsActive:   true,
			FirstVisit: &today,
		}
		if phone != "" {
			person.Phone = &phone
		}
		if ig != "" {
			person.Instagram = &ig
		}
		if err := db.Create(&person).Error; err != nil {
			return err
		}
		result.PeopleAdded++
	}

	return nil
}

// courseByType: tür hücresinden dersi bulur, yoksa yaratır.
func courseByType(db *gorm.DB, rawType string) (*models.Course, error) {
	name := "Atölye – Kurs"
	defaultPrice := 500.0
	if strings.Contains(strings.ToLower(strings.TrimSpace(rawType)), "boyama") {
		name = "Boyama"
		defaultPrice = 250.0
	}

	var course models.Course
	err := db.Where("name = ?", name).First(&course).Error
	if err == nil {
		return &course, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	course = models.Course{
		Name:               name,
		DefaultPrice:       defaultPrice,
		DefaultCapacity:    models.DefaultCourseCapacity,
		DefaultDurationMin: models.DefaultCourseDurationMin,
	}
	if err := db.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func importSessions(db *gorm.DB, f *excelize.File, sheet string, result *ImportResult) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		result.Warnings = append(result.Warnings, "Takvim sayfası boş")
		return nil
	}

	header := rows[0]
	dateCol := pickColumn(header, "Tarih", "Date")
	startCol := pickColumn(header, "Başlangıç", "Baslangic", "Start")
	endCol := pickColumn(header, "Bitiş", "Bitis", "End")
	typeCol := pickColumn(header, "Tür", "Tur", "Ders", "Course")
	capCol := pickColumn(header, "Kapasite", "Capacity")
	priceCol := pickColumn(header, "Fiyat", "Ücret", "Price")
	noteCol := pickColumn(header, "Not", "Açıklama", "Notes")

	if dateCol < 0 || startCol < 0 || endCol < 0 || typeCol < 0 {
		result.Warnings = append(result.Warnings, "Takvim sayfasında Tarih, Başlangıç, Bitiş, Tür kolonlarına ihtiyaç var")
		return nil
	}

	for _, row := range rows[1:] {
		rawDate := cellAt(row, dateCol)
		rawStart := cellAt(row, startCol)
		rawEnd := cellAt(row, endCol)
		if rawDate == "" || rawStart == "" || rawEnd == "" {
			continue
		}

		day, ok := parseDay(rawDate)
		if !ok {
			result.SessionsSkip++
			continue
		}
		start, ok := parseClock(rawStart)
		if !ok {
			result.SessionsSkip++
			continue
		}
		end, ok := parseClock(rawEnd)
		if !ok {
			result.SessionsSkip++
			continue
		}

		course, err := courseByType(db, cellAt(row, typeCol))
		if err != nil {
			return err
		}

		var count int64
		if err := db.Model(&models.Session{}).
			Where("course_id = ? AND date = ? AND start_time = ? AND end_time = ?",
				course.ID, day, start, end).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			result.SessionsSkip++
			continue
		}

		session := models.Session{
			CourseID:  course.ID,
			Date:      day,
			StartTime: start,
			EndTime:   end,
			Capacity:  course.DefaultCapacity,
			Notes:     cellAt(row, noteCol),
		}
		if capStr := cellAt(row, capCol); capStr != "" {
			if cap, err := strconv.Atoi(capStr); err == nil && cap > 0 {
				session.Capacity = cap
			}
		}
		if priceStr := cellAt(row, priceCol); priceStr != "" {
			priceStr = strings.ReplaceAll(priceStr, ",", ".")
			if price, err := strconv.ParseFloat(priceStr, 64); err == nil && price > 0 {
				session.PriceOverride = &price
			}
		}

		if err := db.Create(&session).Error; err != nil {
			return err
		}
		result.SessionsAdded++
	}

	return nil
}

// parseDay: Excel'den gelen tarih hücresini çözer. GetRows hücreleri
// biçimlendirilmiş metin olarak döndürdüğü için birkaç yaygın kalıbı dener.
func parseDay(s string) (time.Time, bool) {
	layouts := []string{"2006-01-02", "02.01.2006", "02/01/2006", "1/2/06", "01-02-06", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), true
		}
	}
	// Excel seri numarası
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}

// parseClock: "10:00", "10:00:00" veya Excel gün kesri -> "HH:MM"
func parseClock(s string) (string, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), true
		}
	}
	if frac, err := strconv.ParseFloat(s, 64); err == nil && frac >= 0 && frac < 1 {
		minutes := int(frac*24*60 + 0.5)
		return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04"), true
	}
	return "", false
}
