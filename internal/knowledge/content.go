package knowledge

import "github.com/chridipi/synapse-engine/internal/domain"

// curatedEntry is a curated study record for a known topic keyword. Curated
// records carry a single quiz question; the resolver wraps it into the
// canonical quiz sequence.
type curatedEntry struct {
	mediaID string
	title   string
	summary string
	quiz    domain.QuizQuestion
}

// curatedBase is the keyword-indexed local knowledge base. Content is the
// product's Italian school curriculum set; media IDs are verified references.
var curatedBase = map[string]curatedEntry{
	"fisica": {
		mediaID: "Y9EjnBmO2Jw",
		title:   "I Principi della Dinamica (Hub Scuola)",
		summary: "STUDIO: La dinamica è la parte della fisica che studia come si muovono i corpi per effetto delle forze. \n1. Principio d'Inerzia: Se nessuna forza agisce su un corpo, esso mantiene il suo stato (quiete o moto rettilineo uniforme). \n2. Legge Fondamentale (F=ma): La forza è il prodotto tra massa e accelerazione. \n3. Azione e Reazione: A ogni forza corrisponde una forza uguale e contraria.",
		quiz: domain.QuizQuestion{
			Question: "Quale principio afferma che F = m * a?",
			Options: []domain.QuizOption{
				{Text: "Primo Principio", Correct: false},
				{Text: "Secondo Principio", Correct: true},
				{Text: "Terzo Principio", Correct: false},
			},
			Hint: "È la legge fondamentale della dinamica che collega causa ed effetto.",
		},
	},
	"napoleone": {
		mediaID: "2U_YdZD5kkM",
		title:   "Napoleone Bonaparte - Sintesi Completa",
		summary: "BIOGRAFIA: Generale e Imperatore francese (1769-1821). \nASCESA: Sfruttò il caos post-rivoluzione. Famoso per le campagne d'Italia e d'Egitto. Autoproclamato Imperatore nel 1804. \nRIFORME: Introdusse il Codice Civile (basi diritto moderno). \nCADUTA: Disastrosa campagna di Russia (1812), sconfitto a Lipsia e Waterloo (1815). Esiliato a Sant'Elena.",
		quiz: domain.QuizQuestion{
			Question: "In quale isola morì Napoleone in esilio?",
			Options: []domain.QuizOption{
				{Text: "Isola d'Elba", Correct: false},
				{Text: "Sant'Elena", Correct: true},
				{Text: "Corsica", Correct: false},
			},
			Hint: "Un'isola remota nell'Oceano Atlantico meridionale.",
		},
	},
	"storia": {
		mediaID: "d_kS3x0lJ4k",
		title:   "La Prima Guerra Mondiale (In 5 minuti)",
		summary: "GRANDE GUERRA (1914-1918): Scatenata dall'attentato di Sarajevo. \nSCHIERAMENTI: Triplice Intesa (Francia, UK, Russia, poi Italia/USA) vs Imperi Centrali (Austria, Germania). \nCARATTERISTICHE: Guerra di trincea, logoramento, nuove armi (gas, aerei, carri). \nESITO: Crollo di 4 imperi, nascita di nuovi stati, riassetto dell'Europa con Versailles.",
		quiz: domain.QuizQuestion{
			Question: "Quale evento fece scoppiare la guerra?",
			Options: []domain.QuizOption{
				{Text: "Invasione della Polonia", Correct: false},
				{Text: "Attentato di Sarajevo", Correct: true},
				{Text: "Presa della Bastiglia", Correct: false},
			},
			Hint: "L'assassinio dell'Arciduca Francesco Ferdinando.",
		},
	},
	"chimica": {
		mediaID: "?listType=search&list=Tavola+Periodica+Spiegazione+Semplice",
		title:   "La Tavola Periodica degli Elementi",
		summary: "STRUTTURA: Organizza gli elementi chimici ordinati per numero atomico (Z). \nGRUPPI E PERIODI: Le colonne (gruppi) hanno proprietà simili; le righe (periodi) indicano il livello energetico. \nCLASSIFICAZIONE: Metalli (sinistra), Non metalli (destra), Gas Nobili (ultima colonna, stabili). Fondamentale per prevedere le reazioni chimiche.",
		quiz: domain.QuizQuestion{
			Question: "Come sono ordinati gli elementi nella tavola?",
			Options: []domain.QuizOption{
				{Text: "Per data di scoperta", Correct: false},
				{Text: "Per numero atomico crescente", Correct: true},
				{Text: "Alfabeticamente", Correct: false},
			},
			Hint: "Il numero di protoni nel nucleo decide la posizione.",
		},
	},
	"matematica": {
		mediaID: "?listType=search&list=Equazioni+Primo+Grado+Spiegazione",
		title:   "Equazioni Lineari (Algebra)",
		summary: "CONCETTO: Uguaglianza tra due espressioni verificata solo per certi valori (soluzioni). \nRISOLUZIONE: L'obiettivo è isolare la 'x'. \nPRINCIPI: \n1. Sommando/sottraendo la stessa quantità a entrambi i membri, il risultato non cambia. \n2. Moltiplicando/dividendo entrambi i membri per uno stesso numero (diverso da 0), l'equazione resta equivalente.",
		quiz: domain.QuizQuestion{
			Question: "Qual è il primo passaggio per risolvere 2x + 5 = 15?",
			Options: []domain.QuizOption{
				{Text: "Dividere tutto per 2", Correct: false},
				{Text: "Sottrarre 5 da entrambi i lati", Correct: true},
				{Text: "Moltiplicare per x", Correct: false},
			},
			Hint: "Devi isolare il termine con la x spostando i numeri.",
		},
	},
	"italiano": {
		mediaID: "fESdidM5j7s",
		title:   "La Divina Commedia in 10 minuti",
		summary: "OPERA: Poema allegorico in terzine incatenate. \nVIAGGIO: Dante attraversa i tre regni ultraterreni. \nINFERNO: Voragine a imbuto, pena del contrappasso. \nPURGATORIO: Montagna dove le anime espiano i peccati. \nPARADISO: Cieli concentrici di pura luce e beatitudine. \nGUIDE: Virgilio (Ragione), Beatrice (Teologia/Grazia).",
		quiz: domain.QuizQuestion{
			Question: "Chi guida Dante attraverso l'Inferno?",
			Options: []domain.QuizOption{
				{Text: "Beatrice", Correct: false},
				{Text: "Virgilio", Correct: true},
				{Text: "San Pietro", Correct: false},
			},
			Hint: "Il sommo poeta latino autore dell'Eneide.",
		},
	},
	"inglese": {
		mediaID: "M2K-kM2i_tQ",
		title:   "Inglese: Basi Fondamentali",
		summary: "GRAMMATICA BASE: \n1. Verbo To Be (Essere): I am, You are, He is. \n2. Ordine parole: Subject + Verb + Object (SVO). \n3. Present Simple: Per abitudini e verità generali (Add 's' for he/she/it). \nCONSIGLIO: La pratica dell'ascolto (listening) è cruciale quanto la grammatica.",
		quiz: domain.QuizQuestion{
			Question: "Qual è la forma corretta?",
			Options: []domain.QuizOption{
				{Text: "He go to school", Correct: false},
				{Text: "He goes to school", Correct: true},
				{Text: "He going to school", Correct: false},
			},
			Hint: "Terza persona singolare richiede la 's' o 'es'.",
		},
	},
}
