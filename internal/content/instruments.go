package content

import "github.com/yourusername/easynatorics-api/internal/domain/entity"

// LikertLabels - подписи шкалы тревожности, индекс 0 соответствует ответу 1
var LikertLabels = []string{"Tidak Cemas", "Sedikit", "Cukup", "Cemas", "Sangat Cemas"}

func defaultAnxietyItems() []entity.AnxietyItem {
	return []entity.AnxietyItem{
		{Text: "Mengerjakan soal matematika yang diberikan guru", Category: "Learning"},
		{Text: "Mengerjakan soal di papan tulis", Category: "Learning"},
		{Text: "Mengerjakan ujian matematika", Category: "Evaluation"},
		{Text: "Mempersiapkan ujian matematika", Category: "Evaluation"},
		{Text: "Mendengar pelajaran matematika", Category: "Learning"},
		{Text: "Mengerjakan PR matematika", Category: "Learning"},
		{Text: "Membaca soal di buku", Category: "Learning"},
		{Text: "Mendapat nilai matematika buruk", Category: "Evaluation"},
		{Text: "Memikirkan pelajaran besok", Category: "Evaluation"},
	}
}

func defaultPreTest() []entity.TestQuestion {
	return []entity.TestQuestion{
		{ID: 1, Text: "Sebuah restoran menawarkan 4 jenis makanan utama, 3 jenis minuman, dan 2 jenis dessert. Berapa banyak kombinasi menu yang berbeda yang dapat dipilih pelanggan?", Options: []string{"9", "12", "24", "36"}, CorrectAnswer: "24", Concept: entity.ConceptMultiplication, Explanation: "Menggunakan prinsip perkalian: 4 makanan × 3 minuman × 2 dessert = 24 kombinasi"},
		{ID: 2, Text: "Ada 5 jalur bus dari kota A ke B, dan 3 jalur dari B ke C. Berapa banyak rute dari A ke C melalui B?", Options: []string{"8", "15", "20", "25"}, CorrectAnswer: "15", Concept: entity.ConceptMultiplication, Explanation: "5 jalur A→B × 3 jalur B→C = 15 rute"},
		{ID: 3, Text: "Menu cafe: 5 jenis kopi, 4 jenis kue. Berapa banyak kombinasi kopi + kue?", Options: []string{"9", "20", "25", "30"}, CorrectAnswer: "20", Concept: entity.ConceptMultiplication, Explanation: "5 kopi × 4 kue = 20 kombinasi"},
		{ID: 4, Text: "Seorang siswa memilih 1 dari 3 mata pelajaran dan 1 dari 4 waktu les. Berapa banyak kombinasi pilihan?", Options: []string{"7", "12", "16", "20"}, CorrectAnswer: "12", Concept: entity.ConceptMultiplication, Explanation: "3 mata pelajaran × 4 waktu les = 12 kombinasi"},
		{ID: 5, Text: "Dari 8 peserta, berapa banyak kemungkinan susunan juara 1, 2, dan 3?", Options: []string{"56", "336", "512", "40320"}, CorrectAnswer: "336", Concept: entity.ConceptPermutation, Explanation: "Menggunakan permutasi P(8,3) = 8 × 7 × 6 = 336 susunan"},
		{ID: 6, Text: "Berapa banyak kata 4 huruf yang dapat disusun dari huruf-huruf pada kata 'MAJU'?", Options: []string{"16", "24", "256", "12"}, CorrectAnswer: "24", Concept: entity.ConceptPermutation, Explanation: "Menyusun 4 huruf berbeda: 4! = 4 × 3 × 2 × 1 = 24 kata"},
		{ID: 7, Text: "Dalam sebuah rapat, 7 orang duduk melingkar. Berapa banyak susunan duduk yang mungkin?", Options: []string{"5040", "720", "120", "2520"}, CorrectAnswer: "720", Concept: entity.ConceptPermutation, Explanation: "Permutasi siklik: (7-1)! = 6! = 720 susunan"},
		{ID: 8, Text: "Dari 10 orang, akan dipilih 4 orang untuk menjadi panitia. Berapa banyak cara memilih panitia tersebut?", Options: []string{"40", "210", "5040", "10000"}, CorrectAnswer: "210", Concept: entity.ConceptCombination, Explanation: "Menggunakan kombinasi C(10,4) = 10!/(4!×6!) = 210 cara"},
		{ID: 9, Text: "Sebuah tim bola basket terdiri dari 5 pemain. Jika ada 12 pemain yang tersedia, berapa banyak tim berbeda yang dapat dibentuk?", Options: []string{"60", "792", "95040", "248832"}, CorrectAnswer: "792", Concept: entity.ConceptCombination, Explanation: "Menggunakan kombinasi C(12,5) = 12!/(5!×7!) = 792 tim"},
		{ID: 10, Text: "Dari 6 buku berbeda, berapa cara memilih 2 buku untuk dibaca?", Options: []string{"12", "15", "30", "36"}, CorrectAnswer: "15", Concept: entity.ConceptCombination, Explanation: "C(6,2) = 6!/(2!×4!) = 15 cara"},
	}
}

func defaultPostTest() []entity.TestQuestion {
	return []entity.TestQuestion{
		{ID: 1, Text: "Sebuah kode akses terdiri dari 2 huruf vokal (A,I,U,E,O) diikuti 3 angka. Berapa banyak kode yang mungkin?", Options: []string{"1250", "2500", "5000", "10000"}, CorrectAnswer: "1250", Concept: entity.ConceptMultiplication, Explanation: "5 huruf vokal × 5 huruf vokal × 5 huruf vokal × 10 angka × 10 angka = 1250"},
		{ID: 2, Text: "Ada 4 rute dari rumah ke kampus, dan 3 rute dari kampus ke perpustakaan. Berapa banyak perjalanan berbeda dari rumah ke perpustakaan via kampus?", Options: []string{"7", "12", "16", "20"}, CorrectAnswer: "12", Concept: entity.ConceptMultiplication, Explanation: "4 rute × 3 rute = 12 perjalanan"},
		{ID: 3, Text: "Seorang pelanggan memilih 1 dari 6 rasa es krim dan 1 dari 3 topping. Berapa banyak kombinasi es krim yang mungkin?", Options: []string{"9", "18", "24", "30"}, CorrectAnswer: "18", Concept: entity.ConceptMultiplication, Explanation: "6 rasa × 3 topping = 18 kombinasi"},
		{ID: 4, Text: "Seorang siswa memilih 1 dari 5 buku dan 1 dari 4 waktu baca. Berapa banyak kombinasi pilihan?", Options: []string{"9", "15", "20", "25"}, CorrectAnswer: "20", Concept: entity.ConceptMultiplication, Explanation: "5 buku × 4 waktu = 20 kombinasi"},
		{ID: 5, Text: "Dari 9 orang, akan dipilih ketua, sekretaris, dan bendahara. Berapa banyak cara memilih?", Options: []string{"84", "504", "729", "362880"}, CorrectAnswer: "504", Concept: entity.ConceptPermutation, Explanation: "P(9,3) = 9 × 8 × 7 = 504 cara"},
		{ID: 6, Text: "Berapa banyak bilangan 3 digit yang dapat dibentuk dari angka 1,2,3,4,5,6 tanpa pengulangan?", Options: []string{"120", "216", "256", "720"}, CorrectAnswer: "120", Concept: entity.ConceptPermutation, Explanation: "P(6,3) = 6 × 5 × 4 = 120 bilangan"},
		{ID: 7, Text: "Berapa banyak cara menyusun 5 buku berbeda di rak?", Options: []string{"25", "120", "625", "3125"}, CorrectAnswer: "120", Concept: entity.ConceptPermutation, Explanation: "5! = 5 × 4 × 3 × 2 × 1 = 120 cara"},
		{ID: 8, Text: "Dalam sebuah komite yang terdiri dari 8 orang, dipilih 3 orang sebagai tim inti. Berapa banyak tim yang mungkin?", Options: []string{"56", "336", "512", "40320"}, CorrectAnswer: "56", Concept: entity.ConceptCombination, Explanation: "C(8,3) = 8!/(3!×5!) = 56 tim"},
		{ID: 9, Text: "Dari 15 siswa, akan dipilih 5 siswa untuk lomba cerdas cermat. Berapa banyak cara memilih?", Options: []string{"3003", "3600", "1500", "32760"}, CorrectAnswer: "3003", Concept: entity.ConceptCombination, Explanation: "C(15,5) = 15!/(5!×10!) = 3003 cara"},
		{ID: 10, Text: "Sebuah pizza dapat dipilih dengan 3 topping dari 8 topping yang tersedia. Berapa banyak kombinasi pizza?", Options: []string{"24", "56", "336", "512"}, CorrectAnswer: "56", Concept: entity.ConceptCombination, Explanation: "C(8,3) = 8!/(3!×5!) = 56 kombinasi"},
	}
}
