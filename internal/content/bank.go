package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// ExplanationUnavailable возвращается, если для пары (тема, уровень) нет текста
const ExplanationUnavailable = "Penjelasan belum tersedia."

// Bank - статический банк контента. Используется напрямую в демо-режиме
// и как запасной вариант, когда генерация недоступна.
type Bank struct {
	modules      map[entity.Concept]ModuleInfo
	explanations map[entity.Concept]map[entity.Level]string
	practice     map[entity.Concept][]entity.PracticeQuestion
	anxiety      []entity.AnxietyItem
	tests        map[entity.TestKind][]entity.TestQuestion
}

// NewBank создаёт банк со встроенным контентом курса
func NewBank() *Bank {
	return &Bank{
		modules:      defaultModules(),
		explanations: defaultExplanations(),
		practice:     defaultPracticeQuestions(),
		anxiety:      defaultAnxietyItems(),
		tests: map[entity.TestKind][]entity.TestQuestion{
			entity.TestPre:  defaultPreTest(),
			entity.TestPost: defaultPostTest(),
		},
	}
}

// Module возвращает описание модуля
func (b *Bank) Module(concept entity.Concept) ModuleInfo {
	if m, ok := b.modules[concept]; ok {
		return m
	}
	return ModuleInfo{Concept: concept, Name: string(concept), Title: string(concept)}
}

// Explanation реализует Source
func (b *Bank) Explanation(_ context.Context, concept entity.Concept, level entity.Level) string {
	if text, ok := b.explanations[concept][level]; ok {
		return text
	}
	return ExplanationUnavailable
}

// PracticeQuestions реализует Source. Демо-задачи не зависят от уровня.
func (b *Bank) PracticeQuestions(_ context.Context, concept entity.Concept, _ entity.Level, count int) []entity.PracticeQuestion {
	all := b.practice[concept]
	if count <= 0 || count > len(all) {
		count = len(all)
	}
	out := make([]entity.PracticeQuestion, count)
	copy(out, all[:count])
	return out
}

// Ask реализует Source: без модели тьютор отвечает шаблонной подсказкой
func (b *Bank) Ask(_ context.Context, concept entity.Concept, _ string) string {
	return fmt.Sprintf("🤖 **AI Tutor:** Mode demo aktif. Contoh: untuk %s, coba gambarkan soal sebagai diagram pohon.", b.Module(concept).Title)
}

// AnxietyItems возвращает пункты шкалы тревожности
func (b *Bank) AnxietyItems() []entity.AnxietyItem {
	out := make([]entity.AnxietyItem, len(b.anxiety))
	copy(out, b.anxiety)
	return out
}

// TestQuestions возвращает вопросы pre- или post-теста
func (b *Bank) TestQuestions(kind entity.TestKind) []entity.TestQuestion {
	qs := b.tests[kind]
	out := make([]entity.TestQuestion, len(qs))
	copy(out, qs)
	return out
}

// TestQuestion ищет вопрос теста по ID
func (b *Bank) TestQuestion(kind entity.TestKind, id int) (entity.TestQuestion, bool) {
	for _, q := range b.tests[kind] {
		if q.ID == id {
			return q, true
		}
	}
	return entity.TestQuestion{}, false
}

func defaultModules() map[entity.Concept]ModuleInfo {
	return map[entity.Concept]ModuleInfo{
		entity.ConceptMultiplication: {Concept: entity.ConceptMultiplication, Name: "Prinsip Perkalian", Title: "🔢 Prinsip Perkalian", Description: "Seni Menghitung Kemungkinan"},
		entity.ConceptPermutation:    {Concept: entity.ConceptPermutation, Name: "Permutasi", Title: "🔄 Permutasi", Description: "Seni Menyusun dengan Presisi"},
		entity.ConceptCombination:    {Concept: entity.ConceptCombination, Name: "Kombinasi", Title: "👥 Kombinasi", Description: "Power of Team Selection"},
	}
}

func explanation(lines ...string) string {
	return strings.Join(lines, "\n\n")
}

func defaultExplanations() map[entity.Concept]map[entity.Level]string {
	return map[entity.Concept]map[entity.Level]string{
		entity.ConceptMultiplication: {
			entity.LevelBeginner: explanation(
				"**🔢 PRINSIP PERKALIAN**",
				"**Konsep Inti**: Jika ada beberapa tahap dalam suatu proses dan setiap tahap punya beberapa pilihan, jumlah kombinasi total dihitung dengan mengalikan jumlah pilihan di setiap tahap.",
				"**Analogi Sederhana**: Bayangkan kamu pilih menu di restoran: 3 makanan, 2 minuman. Kamu bisa pilih 1 makanan dan 1 minuman. Total kombinasi? 3 × 2 = 6 cara.",
				"**Contoh**: Di toko ada 4 jenis baju dan 3 ukuran. Berapa banyak kombinasi baju dan ukuran?  \nJawab: 4 × 3 = 12 kombinasi.",
				"**Tips**: Gambar diagram pohon untuk visualisasi. Latihan dengan soal sederhana dulu!",
			),
			entity.LevelIntermediate: explanation(
				"**🔢 PRINSIP PERKALIAN**",
				"**Konsep Inti**: Prinsip perkalian digunakan untuk menghitung total cara saat ada beberapa langkah independen, masing-masing dengan pilihan tertentu.",
				"**Analogi Sederhana**: Bayangin bikin password: 1 huruf (26 pilihan) dan 1 angka (10 pilihan). Total? 26 × 10 = 260 password.",
				"**Contoh**: Ada 5 rute dari kota A ke B, 3 rute dari B ke C. Berapa rute total dari A ke C via B?  \nJawab: 5 × 3 = 15 rute.",
				"**Tips**: Pastikan langkah-langkah independen. Cek ulang apakah urutan penting (kalau iya, mungkin permutasi).",
			),
			entity.LevelAdvanced: explanation(
				"**🔢 PRINSIP PERKALIAN**",
				"**Konsep Inti**: Jumlah total kombinasi dari beberapa langkah independen adalah hasil kali jumlah pilihan di setiap langkah.",
				"**Analogi Sederhana**: Kamu desain kode: 2 slot huruf (26 pilihan per slot), 2 slot angka (10 pilihan per slot). Total? 26 × 26 × 10 × 10 = 67,600 kode.",
				"**Contoh**: Sebuah tim punya 4 proyek, 3 anggota per proyek, 2 jadwal. Berapa kombinasi?  \nJawab: 4 × 3 × 2 = 24 kombinasi.",
				"**Tips**: Bedakan dengan permutasi (urutan penting). Gunakan kalkulator untuk angka besar!",
			),
		},
		entity.ConceptPermutation: {
			entity.LevelBeginner: explanation(
				"**🔄 PERMUTASI**",
				"**Konsep Inti**: Permutasi adalah cara menyusun objek di mana urutan penting.",
				"**Analogi Sederhana**: Bayangin susun 3 buku di rak. Urutan beda = susunan beda. Total? 3 × 2 × 1 = 6 cara.",
				"**Contoh**: Berapa cara susun 3 siswa di baris?  \nJawab: 3! = 6 cara.",
				"**Tips**: Mulai dengan jumlah kecil. Tulis semua kemungkinan untuk paham!",
			),
			entity.LevelIntermediate: explanation(
				"**🔄 PERMUTASI**",
				"**Konsep Inti**: Permutasi menghitung cara menyusun r objek dari n objek, urutan penting. Rumus: P(n,r) = n!/(n-r)!.",
				"**Analogi Sederhana**: Susun 3 dari 5 buku di rak. Total? 5 × 4 × 3 = 60 cara.",
				"**Contoh**: Dari 6 orang, pilih 3 untuk jabatan berbeda. Berapa cara?  \nJawab: P(6,3) = 6 × 5 × 4 = 120 cara.",
				"**Tips**: Gunakan kalkulator faktorial. Cek apakah semua objek berbeda.",
			),
			entity.LevelAdvanced: explanation(
				"**🔄 PERMUTASI**",
				"**Konsep Inti**: Permutasi menghitung susunan r objek dari n objek dengan urutan penting, termasuk kasus siklik atau pengulangan.",
				"**Analogi Sederhana**: Susun 4 orang di meja bundar. Total? (4-1)! = 6 cara.",
				"**Contoh**: Berapa susunan 5 huruf berbeda untuk kode?  \nJawab: 5! = 120 cara.",
				"**Tips**: Pahami kasus khusus (siklik, pengulangan). Latihan soal variasi!",
			),
		},
		entity.ConceptCombination: {
			entity.LevelBeginner: explanation(
				"**👥 KOMBINASI**",
				"**Konsep Inti**: Kombinasi adalah cara memilih objek tanpa peduli urutan.",
				"**Analogi Sederhana**: Pilih 2 temen dari 4 untuk tim. Urutan nggak penting. Total? C(4,2) = 6 cara.",
				"**Contoh**: Dari 5 buku, pilih 2 untuk dibaca. Berapa cara?  \nJawab: C(5,2) = 5!/(2!×3!) = 10 cara.",
				"**Tips**: Gunakan rumus C(n,r). Gambar kombinasi untuk visualisasi!",
			),
			entity.LevelIntermediate: explanation(
				"**👥 KOMBINASI**",
				"**Konsep Inti**: Kombinasi menghitung cara memilih r objek dari n tanpa urutan. Rumus: C(n,r) = n!/(r!×(n-r)!).",
				"**Analogi Sederhana**: Pilih 3 dari 6 topping pizza. Total? C(6,3) = 20 cara.",
				"**Contoh**: Dari 8 siswa, pilih 4 untuk panitia. Berapa cara?  \nJawab: C(8,4) = 8!/(4!×4!) = 70 cara.",
				"**Tips**: Bedakan dengan permutasi. Cek ulang perhitungan faktorial!",
			),
			entity.LevelAdvanced: explanation(
				"**👥 KOMBINASI**",
				"**Konsep Inti**: Kombinasi digunakan untuk memilih r objek dari n tanpa urutan, dengan aplikasi seperti probabilitas.",
				"**Analogi Sederhana**: Pilih 3 dari 7 warna untuk logo. Total? C(7,3) = 35 cara.",
				"**Contoh**: Dari 10 orang, pilih 5 untuk tim. Berapa cara?  \nJawab: C(10,5) = 10!/(5!×5!) = 252 cara.",
				"**Tips**: Gunakan kalkulator untuk n besar. Pahami aplikasi di probabilitas!",
			),
		},
	}
}

func defaultPracticeQuestions() map[entity.Concept][]entity.PracticeQuestion {
	return map[entity.Concept][]entity.PracticeQuestion{
		entity.ConceptMultiplication: {
			{Text: "Restoran punya 4 makanan, 3 minuman, 2 dessert. Berapa kombinasi menu?", Options: []string{"9", "12", "24", "36"}, Answer: "24", Explanation: "4 × 3 × 2 = 24 kombinasi", Hint: "Kalikan semua pilihan"},
			{Text: "Ada 5 warna baju dan 3 ukuran. Berapa kombinasi baju?", Options: []string{"8", "15", "20", "25"}, Answer: "15", Explanation: "5 × 3 = 15 kombinasi", Hint: "Hitung jumlah pilihan per kategori"},
			{Text: "Seorang siswa pilih 1 dari 4 buku dan 1 dari 3 waktu. Berapa kombinasi?", Options: []string{"7", "12", "16", "20"}, Answer: "12", Explanation: "4 × 3 = 12 kombinasi", Hint: "Gunakan prinsip perkalian"},
		},
		entity.ConceptPermutation: {
			{Text: "Dari 8 peserta, berapa susunan juara 1, 2, 3?", Options: []string{"56", "336", "512", "40320"}, Answer: "336", Explanation: "P(8,3) = 8 × 7 × 6 = 336", Hint: "Urutan penting, pakai permutasi"},
			{Text: "Berapa cara susun 3 buku di rak?", Options: []string{"6", "9", "12", "18"}, Answer: "6", Explanation: "3! = 3 × 2 × 1 = 6 cara", Hint: "Hitung faktorial"},
			{Text: "Pilih 2 dari 5 huruf untuk kode. Berapa susunan?", Options: []string{"10", "20", "25", "60"}, Answer: "20", Explanation: "P(5,2) = 5 × 4 = 20 cara", Hint: "Urutan penting"},
		},
		entity.ConceptCombination: {
			{Text: "Dari 10 orang, pilih 4 untuk panitia. Berapa cara?", Options: []string{"40", "210", "5040", "10000"}, Answer: "210", Explanation: "C(10,4) = 10!/(4!×6!) = 210 cara", Hint: "Urutan tidak penting"},
			{Text: "Pilih 2 dari 5 topping pizza. Berapa cara?", Options: []string{"5", "10", "20", "25"}, Answer: "10", Explanation: "C(5,2) = 5!/(2!×3!) = 10 cara", Hint: "Gunakan rumus kombinasi"},
			{Text: "Dari 7 warna, pilih 3 untuk logo. Berapa cara?", Options: []string{"21", "35", "49", "343"}, Answer: "35", Explanation: "C(7,3) = 7!/(3!×4!) = 35 cara", Hint: "Pilih tanpa urutan"},
		},
	}
}
