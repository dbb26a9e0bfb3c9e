package guard

import "math"

// naive bayes text classifier, trained from spam/ham sample artifacts at startup

// spamClass is alias of string, representing class of a document
type spamClass string

// document classes
const (
	classSpam spamClass = "spam"
	classHam  spamClass = "ham"
)

// document is a group of tokens with certain class
type document struct {
	spamClass spamClass
	tokens    []string
}

// classifier is object for a classifying document
type classifier struct {
	learningResults    map[string]map[spamClass]int
	priorProbabilities map[spamClass]float64
	nDocumentByClass   map[spamClass]int
	nFrequencyByClass  map[spamClass]int
	nAllDocument       int
}

func newClassifier() classifier {
	return classifier{
		learningResults:    make(map[string]map[spamClass]int),
		priorProbabilities: make(map[spamClass]float64),
		nDocumentByClass:   make(map[spamClass]int),
		nFrequencyByClass:  make(map[spamClass]int),
	}
}

// ready reports if the classifier has seen samples of both classes
func (c *classifier) ready() bool {
	return c.nAllDocument > 0 && c.nDocumentByClass[classSpam] > 0 && c.nDocumentByClass[classHam] > 0
}

// learn executes the learning process for this classifier
func (c *classifier) learn(docs ...document) {
	c.nAllDocument += len(docs)

	for _, doc := range docs {
		c.nDocumentByClass[doc.spamClass]++
		tokens := dedupTokens(doc.tokens)

		for _, token := range tokens {
			c.nFrequencyByClass[doc.spamClass]++
			if _, exist := c.learningResults[token]; !exist {
				c.learningResults[token] = make(map[spamClass]int)
			}
			c.learningResults[token][doc.spamClass]++
		}
	}

	for class, nDocument := range c.nDocumentByClass {
		c.priorProbabilities[class] = math.Log(float64(nDocument) / float64(c.nAllDocument))
	}
}

// reset drops all learning results
func (c *classifier) reset() {
	c.learningResults = make(map[string]map[spamClass]int)
	c.priorProbabilities = make(map[spamClass]float64)
	c.nDocumentByClass = make(map[spamClass]int)
	c.nFrequencyByClass = make(map[spamClass]int)
	c.nAllDocument = 0
}

// classify returns the best class for the tokens, its probability in percents
// and a certainty flag, false when classes tie.
func (c *classifier) classify(tokens ...string) (spamClass, float64, bool) {
	nVocabulary := len(c.learningResults)
	posteriorProbabilities := make(map[spamClass]float64)

	for class, priorProb := range c.priorProbabilities {
		posteriorProbabilities[class] = priorProb
	}
	tokens = dedupTokens(tokens)

	for class, freqByClass := range c.nFrequencyByClass {
		for _, token := range tokens {
			nToken := c.learningResults[token][class]
			posteriorProbabilities[class] += math.Log(float64(nToken+1) / float64(freqByClass+nVocabulary))
		}
	}

	probabilities := softmax(posteriorProbabilities)

	var certain bool
	var bestClass spamClass
	var highestProb float64
	for class, prob := range probabilities {
		if highestProb == 0 || prob > highestProb {
			certain = true
			bestClass = class
			highestProb = prob
		} else if prob == highestProb {
			certain = false
		}
	}

	return bestClass, highestProb * 100, certain
}

func dedupTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	res := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		res = append(res, token)
	}
	return res
}

// softmax converts log probabilities to normalized probabilities
func softmax(logProbs map[spamClass]float64) map[spamClass]float64 {
	sum := 0.0
	probs := make(map[spamClass]float64)

	for _, logProb := range logProbs {
		sum += math.Exp(logProb)
	}
	for class, logProb := range logProbs {
		probs[class] = math.Exp(logProb) / sum
	}
	return probs
}
