package lexicon

// Builtin returns the built-in hotel-review lexicon, compiled once per call.
// Word boundaries (\b) are ASCII-only in Go's regexp engine, so the Cyrillic
// and Turkish patterns rely on stem prefixes instead of boundary anchors.
func Builtin() *Lexicon {
	lex, err := Compile(builtinSpec())
	if err != nil {
		// The built-in spec is fixed at compile time; failing to compile it
		// is a programming error, not an input error.
		panic("lexicon: built-in spec does not compile: " + err.Error())
	}
	return lex
}

// BuiltinSpec returns a copy of the declarative built-in spec, mainly for
// `lexicon show` and for writing a starter file users can edit.
func BuiltinSpec() Spec { return builtinSpec() }

func builtinSpec() Spec {
	return Spec{
		Version: "2025-10-27_v1",
		Sentiment: map[Bucket]map[string][]string{
			BucketPositiveStrong: {
				"ru": {
					`идеальн`, `превосходн`, `потрясающе`, `великолепн`,
					`шикарн`, `супер`, `лучший опыт`, `лучшее место`,
					`очень понравил`, `в восторге`, `обожаю`,
					`однозначно рекомендую`, `безупречн`, `чисто идеально`,
				},
				"en": {
					`\bamazing\b`, `\bawesome\b`, `\bperfect\b`, `\bflawless\b`,
					`\bexceptional\b`, `\bexcellent\b`, `\boutstanding\b`,
					`\bloved it\b`, `\bi loved\b`, `\bhighly recommend\b`,
					`\bdefinitely recommend\b`, `\bwe will come back\b`,
					`\bspotless\b`, `\bimmaculate\b`, `\bfantastic\b`,
				},
				"tr": {
					`harika`, `mükemmel`, `kusursuz`, `şahane`,
					`çok beğendik`, `çok memnun kaldık`,
					`kesinlikle tavsiye ederim`, `tekrar geleceğiz`,
				},
			},
			BucketPositiveSoft: {
				"ru": {
					`хорошо`, `доволен`, `довольн`, `приятно`,
					`в целом понравил`, `приятный опыт`, `чисто`, `уютн`,
					`комфортн`, `удобн`, `вежлив`, `доброжелательн`,
					`радушн`, `дружелюб`, `гостеприимн`,
					`приняли хорошо`, `быстро заселили`, `быстро поселили`,
				},
				"en": {
					`\bgood\b`, `\bvery good\b`, `\bnice\b`, `\bpleasant\b`,
					`\bcomfortable\b`, `\bcozy\b`, `\bclean\b`,
					`\bfriendly staff\b`, `\bpolite staff\b`, `\bhelpful staff\b`,
					`\bwelcoming\b`, `\bquick check[- ]?in\b`, `\bfast check[- ]?in\b`,
					`\bno issues\b`, `\bno problems\b`,
				},
				"tr": {
					`çok iyi`, `gayet iyi`, `rahat`, `temiz`,
					`güler yüzlü`, `yardımsever`, `misafirperver`,
					`hızlı check[- ]?in`, `sorun yoktu`,
				},
			},
			BucketNegativeSoft: {
				"ru": {
					`не очень`, `могло бы быть лучше`, `средне`,
					`так себе`, `ожидали? лучше`,
					`разочаров`, `не впечатлил`, `есть недочеты`,
					`немного грязн`, `чуть грязн`, `шумновато`, `слегка шумно`,
					`шумит`, `шумно`, `некомфортно`, `неудобно`,
					`долго ждали`, `ждали долго`, `подождать пришлось`,
					`проблемы с заселением`, `не сразу заселили`,
					`комната ещё не была готова`,
				},
				"en": {
					`\bnot great\b`, `\bnot very good\b`, `\bcould be better\b`,
					`\baverage\b`, `\bdisappoint`, `\bunderwhelming\b`,
					`\ba bit dirty\b`, `\ba little dirty\b`,
					`\bnoisy\b`, `\bquite noisy\b`, `\ba bit noisy\b`,
					`\buncomfortable\b`, `\binconvenient\b`,
					`\bhad to wait\b`, `\bwaited a while\b`,
					`\broom not ready\b`,
				},
				"tr": {
					`o kadar iyi değil`, `ortalama`,
					`biraz kirli`, `biraz gürültülü`, `biraz rahatsız`,
					`beklemek zorunda kaldık`, `oda hazır değildi`,
					`hayal kırıklığı`,
				},
			},
			BucketNegativeStrong: {
				"ru": {
					`ужасн`, `кошмар`, `катастроф`, `отвратител`,
					`мерзко`, `грязь`, `грязно`, `вонял`,
					`вонь`, `плесень`, `плесн`,
					`очень шумно`, `невыносимо`, `невозможно спать`,
					`обман`, `скрытые платеж`, `надули`,
					`никому не советую`, `никому не рекомендую`,
					`никогда больше`, `больше не приеду`,
					`персонал хамил`, `грубый персонал`, `хамство`, `грубость`,
				},
				"en": {
					`\bterrible\b`, `\bawful\b`, `\bdisgusting\b`, `\bfilthy\b`, `\bdirty\b`,
					`\bsmelled bad\b`, `\bstinky\b`, `\bmold\b`, `\bmould\b`,
					`\bscam\b`, `\brip[- ]?off\b`, `\bfraud\b`, `\bhidden fees\b`,
					`\bnever again\b`, `\bwill not come back\b`, `\bnot recommend\b`,
					`\brude staff\b`, `\bvery rude\b`, `\bextremely rude\b`, `\binsulting\b`,
					`\bimpossible to sleep\b`, `\bno sleep\b`,
					`\bso noisy\b`, `\bextremely noisy\b`,
				},
				"tr": {
					`berbat`, `rezalet`, `iğrenç`, `çok pis`,
					`küf`, `aldatıldık`, `dolandırıcılık`, `gizli ücretler`,
					`bir daha asla`, `tavsiye etmiyorum`,
					`çok kaba`, `aşağılayıcı`,
					`uyuyamadık`, `çok gürültülü`,
				},
			},
			BucketNeutral: {
				"ru": {
					`нормально`, `норм`, `терпимо`, `сойдёт`, `сойдет`,
					`приемлемо`, `вполне сносно`, `без особых проблем`,
					`ничего страшного`, `ничего критичного`,
					`для одной ночи ок`, `для одной ночи нормально`,
				},
				"en": {
					`\bok\b`, `\bokay\b`, `\bfine\b`, `\ball right\b`,
					`\bacceptable\b`, `\bdecent\b`,
					`\bit was ok\b`, `\bit was fine\b`,
					`\bnothing special\b`, `\bgood for one night\b`,
				},
				"tr": {
					`idare eder`, `fena değil`, `kötü değil`,
					`bir gece için yeterli`,
				},
			},
		},
		Topics: []TopicSpec{
			{
				Key: "staff", Display: "Staff",
				Subtopics: []SubtopicSpec{
					{
						Key: "attitude", Display: "Attitude and politeness",
						Patterns: map[string][]string{
							"ru": {`вежлив`, `доброжелательн`, `дружелюб`, `приветлив`, `радушн`, `отзывчив`, `хамил`, `хамство`, `нагруб`, `грубы`, `грубость`, `неприветлив`, `недружелюб`},
							"en": {`\bfriendly staff\b`, `\bvery friendly\b`, `\bwelcoming\b`, `\bpolite\b`, `\bkind staff\b`, `\brude staff\b`, `\bunfriendly\b`, `\bimpolite\b`, `\bdisrespectful\b`},
							"tr": {`güler yüzlü`, `nazik`, `kibar`, `çok kaba`, `saygısız`},
						},
					},
					{
						Key: "speed", Display: "Responsiveness",
						Patterns: map[string][]string{
							"ru": {`быстро заселили`, `оформили быстро`, `оперативно`, `пришли сразу`, `ждали долго`, `долго ждали`, `никого не было на ресепшен`, `долго оформляли`},
							"en": {`\bquick check[- ]?in\b`, `\bfast check[- ]?in\b`, `\bresponded immediately\b`, `\bhad to wait\b`, `\bnobody at the desk\b`, `\bslow check[- ]?in\b`, `\btook too long\b`},
							"tr": {`hızlı check[- ]?in`, `hemen geldiler`, `çok bekledik`, `resepsiyonda kimse yoktu`},
						},
					},
				},
			},
			{
				Key: "checkin_stay", Display: "Check-in and stay",
				Subtopics: []SubtopicSpec{
					{
						Key: "checkin", Display: "Check-in",
						Patterns: map[string][]string{
							"ru": {`заселени`, `заселил`, `заехал`, `заезд`, `ресепшен`, `ресепшн`, `регистраци`},
							"en": {`\bcheck[- ]?in\b`, `\barrival\b`, `\breception\b`, `\bfront desk\b`},
							"tr": {`check[- ]?in`, `resepsiyon`, `giriş`},
						},
					},
					{
						Key: "checkout", Display: "Check-out",
						Patterns: map[string][]string{
							"ru": {`выселени`, `выезд`, `выписк`},
							"en": {`\bcheck[- ]?out\b`, `\bdeparture\b`},
							"tr": {`check[- ]?out`, `çıkış`},
						},
					},
				},
			},
			{
				Key: "cleanliness", Display: "Cleanliness",
				Subtopics: []SubtopicSpec{
					{
						Key: "room", Display: "Room cleanliness",
						Patterns: map[string][]string{
							"ru": {`чисто`, `чистый номер`, `чистот`, `убран`, `уборк`, `грязн`, `грязь`, `пыль`, `волосы`, `мусор`},
							"en": {`\bclean\b`, `\bspotless\b`, `\bdirty\b`, `\bfilthy\b`, `\bdust\b`, `\bhair\b`, `\bhousekeeping\b`},
							"tr": {`temiz`, `kirli`, `toz`, `temizlik`},
						},
					},
					{
						Key: "bathroom", Display: "Bathroom",
						Patterns: map[string][]string{
							"ru": {`ванн`, `санузел`, `туалет`, `душев`, `плесень`, `плесн`},
							"en": {`\bbathroom\b`, `\btoilet\b`, `\bshower\b`, `\bmold\b`, `\bmould\b`},
							"tr": {`banyo`, `tuvalet`, `duş`, `küf`},
						},
					},
				},
			},
			{
				Key: "comfort", Display: "Comfort",
				Subtopics: []SubtopicSpec{
					{
						Key: "ac", Display: "Climate control",
						Patterns: map[string][]string{
							"ru": {`кондиционер`, `кондёр`, `сплит-систем`, `отоплени`, `батаре`, `душно`, `жарко`, `холодно в номере`},
							"en": {`\bair[- ]?con`, `\ba/c\b`, `\bac\b`, `\bheating\b`, `\btoo hot\b`, `\btoo cold\b`, `\bstuffy\b`},
							"tr": {`klima`, `ısıtma`, `çok sıcak`, `çok soğuk`, `havasız`},
						},
					},
					{
						Key: "bed", Display: "Bed and sleep",
						Patterns: map[string][]string{
							"ru": {`кровать`, `кроват`, `матрас`, `подушк`, `постель`, `спалось`, `выспал`},
							"en": {`\bbed\b`, `\bmattress\b`, `\bpillow`, `\bslept\b`, `\bsleep\b`},
							"tr": {`yatak`, `yastık`, `uyku`},
						},
					},
					{
						Key: "noise", Display: "Noise",
						Patterns: map[string][]string{
							"ru": {`шум`, `громко`, `слышно соседей`, `слышимость`, `тихо`, `тишин`},
							"en": {`\bnois`, `\bloud\b`, `\bquiet\b`, `\bsoundproof`, `\bthin walls\b`},
							"tr": {`gürültü`, `sessiz`, `ses yalıtım`},
						},
					},
					{
						Key: "space", Display: "Space and layout",
						Patterns: map[string][]string{
							"ru": {`просторн`, `тесн`, `маленький номер`, `места мало`, `планировк`},
							"en": {`\bspacious\b`, `\bcramped\b`, `\btiny room\b`, `\bsmall room\b`, `\blayout\b`},
							"tr": {`geniş`, `dar`, `küçük oda`},
						},
					},
				},
			},
			{
				Key: "tech_state", Display: "Technical state",
				Subtopics: []SubtopicSpec{
					{
						Key: "wifi", Display: "Wi-Fi and internet",
						Patterns: map[string][]string{
							"ru": {`вай-?фай`, `wi-?fi`, `интернет`, `сеть`},
							"en": {`\bwi-?fi\b`, `\binternet\b`, `\bconnection\b`},
							"tr": {`wi-?fi`, `internet`, `bağlantı`},
						},
					},
					{
						Key: "plumbing", Display: "Water and plumbing",
						Patterns: map[string][]string{
							"ru": {`горячая вода`, `горячей воды`, `напор`, `душ `, `душ.`, `кран`, `протек`, `сантехник`},
							"en": {`\bhot water\b`, `\bwater pressure\b`, `\bshower\b`, `\bleak`, `\bplumbing\b`, `\btap\b`},
							"tr": {`sıcak su`, `su basıncı`, `duş`, `sızıntı`},
						},
					},
					{
						Key: "security", Display: "Locks and security",
						Patterns: map[string][]string{
							"ru": {`замок`, `замк`, `дверь`, `двери`, `сейф`, `безопасн`, `небезопасн`},
							"en": {`\block\b`, `\bdoor\b`, `\bsafe\b`, `\bsecure\b`, `\bunsafe\b`, `\bsecurity\b`},
							"tr": {`kilit`, `kapı`, `kasa`, `güvenli`, `güvensiz`},
						},
					},
				},
			},
			{
				Key: "breakfast", Display: "Breakfast",
				Subtopics: []SubtopicSpec{
					{
						Key: "food", Display: "Food quality and variety",
						Patterns: map[string][]string{
							"ru": {`завтрак`, `буфет`, `шведский стол`, `кофе`, `еда`, `еды`},
							"en": {`\bbreakfast\b`, `\bbuffet\b`, `\bcoffee\b`, `\bfood\b`},
							"tr": {`kahvaltı`, `büfe`, `kahve`, `yemek`},
						},
					},
				},
			},
			{
				Key: "value", Display: "Value for money",
				Subtopics: []SubtopicSpec{
					{
						Key: "price", Display: "Price vs quality",
						Patterns: map[string][]string{
							"ru": {`цена`, `цены`, `ценник`, `дорого`, `дёшево`, `дешево`, `стоимост`, `соотношение цена`, `за свои деньги`, `переплат`},
							"en": {`\bprice\b`, `\bexpensive\b`, `\bcheap\b`, `\bvalue for money\b`, `\bgood value\b`, `\boverpriced\b`, `\bworth\b`},
							"tr": {`fiyat`, `pahalı`, `ucuz`, `fiyat performans`, `değer`},
						},
					},
				},
			},
			{
				Key: "location", Display: "Location",
				Subtopics: []SubtopicSpec{
					{
						Key: "area", Display: "Area and access",
						Patterns: map[string][]string{
							"ru": {`расположени`, `локаци`, `близко к`, `рядом с`, `центр`, `метро`, `добираться`, `далеко от`},
							"en": {`\blocation\b`, `\bclose to\b`, `\bnear\b`, `\bcity center\b`, `\bcity centre\b`, `\bmetro\b`, `\bfar from\b`, `\bwalking distance\b`},
							"tr": {`konum`, `merkeze yakın`, `yakın`, `uzak`, `ulaşım`},
						},
					},
					{
						Key: "safety", Display: "Neighbourhood safety",
						Patterns: map[string][]string{
							"ru": {`район`, `страшно`, `опасн`, `небезопасн`, `криминал`},
							"en": {`\bneighborhood\b`, `\bneighbourhood\b`, `\bsketchy\b`, `\bdangerous\b`, `\bunsafe\b`, `\bsafe area\b`},
							"tr": {`mahalle`, `tehlikeli`, `güvensiz`, `güvenli bölge`},
						},
					},
				},
			},
			{
				Key: "atmosphere", Display: "Atmosphere",
				Subtopics: []SubtopicSpec{
					{
						Key: "vibe", Display: "Vibe and interior",
						Patterns: map[string][]string{
							"ru": {`атмосфер`, `уютн`, `интерьер`, `стильн`, `как дома`, `мрачн`, `старый ремонт`, `неуютн`},
							"en": {`\batmosphere\b`, `\bcozy\b`, `\bcosy\b`, `\bvibe\b`, `\binterior\b`, `\bstylish\b`, `\bgloomy\b`, `\bdated\b`},
							"tr": {`atmosfer`, `dekor`, `şık`, `kasvetli`},
						},
					},
					{
						Key: "loyalty", Display: "Return intent",
						Patterns: map[string][]string{
							"ru": {`вернусь`, `вернемся`, `вернёмся`, `приедем ещё`, `приедем еще`, `рекоменду`, `советую`},
							"en": {`\bwill come back\b`, `\bcome back\b`, `\breturn\b`, `\brecommend\b`, `\bwould stay again\b`},
							"tr": {`tekrar geleceğiz`, `tavsiye ederim`, `yine kalırız`},
						},
					},
				},
			},
		},
		Aspects: []AspectSpec{
			{
				Code: "staff_friendly", DisplayShort: "friendly staff",
				LongHint: "Guests highlight how welcoming and kind the team is.",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`дружелюб`, `приветлив`, `вежлив`, `доброжелательн`, `радушн`},
					"en": {`\bfriendly\b`, `\bwelcoming\b`, `\bpolite\b`, `\bkind\b`},
					"tr": {`güler yüzlü`, `nazik`, `kibar`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "staff", Subtopic: "attitude"}},
			},
			{
				Code: "staff_rude", DisplayShort: "rude staff",
				LongHint: "Hard negative feedback about how guests were spoken to.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`хамил`, `хамство`, `нагруб`, `грубы`, `грубость`, `неприветлив`},
					"en": {`\brude\b`, `\bimpolite\b`, `\bdisrespectful\b`, `\bunfriendly\b`},
					"tr": {`kaba`, `saygısız`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "staff", Subtopic: "attitude"}},
			},
			{
				Code: "checkin_fast", DisplayShort: "fast check-in",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`быстро заселили`, `быстро поселили`, `оформили быстро`, `заселили сразу`},
					"en": {`\bquick check[- ]?in\b`, `\bfast check[- ]?in\b`, `\bcheck[- ]?in was quick\b`},
					"tr": {`hızlı check[- ]?in`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "checkin_stay", Subtopic: "checkin"}, {Topic: "staff", Subtopic: "speed"}},
			},
			{
				Code: "checkin_slow", DisplayShort: "slow check-in",
				LongHint: "Waiting at the desk, room not ready on time.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`долго ждали`, `ждали долго`, `долго оформляли`, `не сразу заселили`, `комната ещё не была готова`},
					"en": {`\bhad to wait\b`, `\bslow check[- ]?in\b`, `\broom not ready\b`, `\btook too long\b`},
					"tr": {`çok bekledik`, `oda hazır değildi`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "checkin_stay", Subtopic: "checkin"}, {Topic: "staff", Subtopic: "speed"}},
			},
			{
				Code: "clean_room", DisplayShort: "clean room",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`чисто`, `чистый номер`, `идеально убран`, `чистот`},
					"en": {`\bclean\b`, `\bspotless\b`, `\bimmaculate\b`},
					"tr": {`temiz`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "cleanliness", Subtopic: "room"}},
			},
			{
				Code: "room_dirty", DisplayShort: "dirty room",
				LongHint: "Dust, hair or trash left from a previous guest.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`грязн`, `грязь`, `пыль`, `волосы`, `не убран`, `плесень`, `плесн`},
					"en": {`\bdirty\b`, `\bfilthy\b`, `\bdust\b`, `\bhair\b`, `\bmold\b`, `\bmould\b`},
					"tr": {`kirli`, `toz`, `küf`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "cleanliness", Subtopic: "room"}, {Topic: "cleanliness", Subtopic: "bathroom"}},
			},
			{
				Code: "ac_noisy", DisplayShort: "noisy air conditioning",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`кондиционер\S* (шумит|гудит|тарахтит)`, `шумный кондиционер`, `кондиционер шум`},
					"en": {`\bnoisy (ac|a/c|air[- ]?con\w*)\b`, `\b(ac|a/c|air[- ]?con\w*) (is |was )?(noisy|loud)`},
					"tr": {`klima (gürültülü|ses yapıyor)`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "comfort", Subtopic: "ac"}, {Topic: "comfort", Subtopic: "noise"}},
			},
			{
				Code: "ac_broken", DisplayShort: "broken climate control",
				LongHint: "Too hot, too cold or stuffy; AC or heating out of order.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`кондиционер не работа`, `не работал кондиционер`, `душно`, `жарко`, `холодно в номере`, `отопление не`},
					"en": {`\b(ac|a/c|air[- ]?con\w*) (did ?n.t|does ?n.t|not) work`, `\bbroken (ac|a/c|air[- ]?con\w*)\b`, `\btoo hot\b`, `\btoo cold\b`, `\bstuffy\b`},
					"tr": {`klima çalışmıyor`, `çok sıcak`, `çok soğuk`, `havasız`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "comfort", Subtopic: "ac"}},
			},
			{
				Code: "wifi_unstable", DisplayShort: "unstable Wi-Fi",
				LongHint: "Connection drops or is too slow to work remotely.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`(вай-?фай|wi-?fi|интернет)\S* (не работа|отваливал|медленн|плох)`, `плохой интернет`, `слабый интернет`, `интернет не ловит`},
					"en": {`\bwi-?fi (did ?n.t|does ?n.t|not) work`, `\b(slow|unstable|spotty|bad) (wi-?fi|internet)\b`, `\bwi-?fi kept dropping\b`},
					"tr": {`wi-?fi (çalışmıyor|yavaş|kötü)`, `internet (çalışmıyor|yavaş|kötü)`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "tech_state", Subtopic: "wifi"}},
			},
			{
				Code: "bed_comfy", DisplayShort: "comfortable bed",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`удобная кровать`, `удобные кровати`, `удобный матрас`, `отлично спалось`, `выспал`},
					"en": {`\bcomfortable bed\b`, `\bcomfy bed\b`, `\bgreat mattress\b`, `\bslept (really )?well\b`},
					"tr": {`rahat yatak`, `yatak çok rahat`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "comfort", Subtopic: "bed"}},
			},
			{
				Code: "breakfast_tasty", DisplayShort: "tasty breakfast",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`вкусный завтрак`, `завтрак вкусн`, `отличный завтрак`, `хороший завтрак`, `разнообразный завтрак`},
					"en": {`\b(tasty|great|good|delicious|excellent) breakfast\b`, `\bbreakfast was (tasty|great|good|delicious)\b`},
					"tr": {`kahvaltı (çok )?(güzel|lezzetli)`, `güzel kahvaltı`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "breakfast", Subtopic: "food"}},
			},
			{
				Code: "breakfast_poor", DisplayShort: "poor breakfast",
				LongHint: "Cold food, stale products, bad coffee or little choice.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`завтрак (так себе|плох|скудн|невкусн|холодн)`, `скудный завтрак`, `невкусный завтрак`, `плохой кофе`},
					"en": {`\b(poor|bad|cold|meh) breakfast\b`, `\bbreakfast was (poor|bad|cold|disappointing)\b`, `\bbad coffee\b`},
					"tr": {`kahvaltı (kötü|zayıf|yetersiz)`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "breakfast", Subtopic: "food"}},
			},
			{
				Code: "good_value", DisplayShort: "good value for money",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`за свои деньги`, `соотношение цена`, `цена соответствует`, `недорого`, `дёшево и`, `дешево и`},
					"en": {`\bgood value\b`, `\bgreat value\b`, `\bvalue for money\b`, `\bworth the (price|money)\b`, `\breasonably priced\b`},
					"tr": {`fiyat performans`, `fiyatına değer`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "value", Subtopic: "price"}},
			},
			{
				Code: "overpriced", DisplayShort: "overpriced",
				LongHint: "Guests feel the place is not worth the money.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`дорого`, `завышенная цена`, `не стоит своих денег`, `переплат`, `ценник завышен`},
					"en": {`\boverpriced\b`, `\btoo expensive\b`, `\bnot worth\b`, `\brip[- ]?off\b`},
					"tr": {`çok pahalı`, `fiyatına değmez`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "value", Subtopic: "price"}},
			},
			{
				Code: "location_convenient", DisplayShort: "convenient location",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`удобное расположени`, `отличное расположени`, `близко к`, `рядом с метро`, `рядом центр`, `в центре`},
					"en": {`\b(great|good|perfect|convenient|excellent) location\b`, `\bclose to\b`, `\bwalking distance\b`, `\bnear the (center|centre|metro)\b`},
					"tr": {`konum (çok )?(iyi|güzel|merkezi)`, `merkeze yakın`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "location", Subtopic: "area"}},
			},
			{
				Code: "noisy_room", DisplayShort: "noisy room",
				LongHint: "Street, neighbours or corridor noise keeping guests awake.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`шумно`, `очень шумно`, `шум с улицы`, `слышно соседей`, `слышимость`, `невозможно спать`},
					"en": {`\bnoisy\b`, `\bso loud\b`, `\bstreet noise\b`, `\bthin walls\b`, `\bimpossible to sleep\b`, `\bcould ?n.t sleep\b`},
					"tr": {`gürültülü`, `uyuyamadık`, `ses yalıtımı yok`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "comfort", Subtopic: "noise"}},
			},
			{
				Code: "no_hot_water", DisplayShort: "no hot water / weak pressure",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`нет горячей воды`, `не было горячей воды`, `горячая вода (пропадал|то есть)`, `слабый напор`, `душ не работа`},
					"en": {`\bno hot water\b`, `\bhot water (ran out|kept cutting)\b`, `\b(low|weak) water pressure\b`, `\bshower (did ?n.t|not) work`},
					"tr": {`sıcak su yok`, `su basıncı (düşük|zayıf)`, `duş çalışmıyor`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "tech_state", Subtopic: "plumbing"}},
			},
			{
				Code: "felt_unsafe", DisplayShort: "felt unsafe",
				LongHint: "Broken lock, door that does not close, or a troubling area.",
				Polarity: PolarityNegative,
				Patterns: map[string][]string{
					"ru": {`дверь не закрыва`, `сломанный замок`, `замок не работа`, `небезопасн`, `страшно выходить`, `опасный район`},
					"en": {`\bdoor (did ?n.t|does ?n.t|would ?n.t|not) (close|lock)`, `\bbroken lock\b`, `\bfelt unsafe\b`, `\bunsafe\b`, `\bsketchy (area|neighborhood|neighbourhood)\b`},
					"tr": {`kapı kapanmıyor`, `kilit bozuk`, `güvensiz`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "tech_state", Subtopic: "security"}, {Topic: "location", Subtopic: "safety"}},
			},
			{
				Code: "good_vibe", DisplayShort: "cozy atmosphere",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`уютн`, `атмосферн`, `стильный интерьер`, `как дома`, `приятная атмосфер`},
					"en": {`\bcozy\b`, `\bcosy\b`, `\bgreat (vibe|atmosphere)\b`, `\bfelt like home\b`, `\bstylish\b`},
					"tr": {`atmosfer (çok )?güzel`, `şık`, `ev gibi`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "atmosphere", Subtopic: "vibe"}},
			},
			{
				Code: "would_return", DisplayShort: "would return",
				Polarity: PolarityPositive,
				Patterns: map[string][]string{
					"ru": {`вернусь`, `вернемся`, `вернёмся`, `приедем ещё`, `приедем еще`, `однозначно рекоменду`, `советую`},
					"en": {`\bwill (definitely )?come back\b`, `\bwould stay again\b`, `\bhighly recommend\b`, `\bdefinitely recommend\b`},
					"tr": {`tekrar geleceğiz`, `kesinlikle tavsiye ederim`, `yine kalırız`},
				},
				AllowedSubtopics: []TopicRef{{Topic: "atmosphere", Subtopic: "loyalty"}},
			},
		},
	}
}
